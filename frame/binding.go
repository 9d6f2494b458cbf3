package frame

//go:generate go tool stringer -type=Stage -trimprefix=Stage

// Stage is a programmable shader stage with its own binding table.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment

	stageCount
)

// Binding indices shared with the shaders.
const (
	BindingVertices = 0
	BindingUniforms = 1

	bindingCount = 2
)

// BufferAddress points to a range within a Buffer.
type BufferAddress struct {
	Buffer Buffer
	Offset uint64
	Size   uint64
}

func (b BufferAddress) IsZero() bool {
	return b.Buffer == nil
}

// BindingTable maps binding indices to buffer addresses.
type BindingTable [bindingCount]BufferAddress

// ResourceBinder fills the binding tables and attaches them to an encoder.
// Addresses must be set before the table is attached, an address set
// afterwards is not seen by draws of the current pass.
type ResourceBinder interface {
	SetAddress(stage Stage, index int, address BufferAddress)
	Attach(encoder RenderEncoder, stage Stage)
}

// BindingTables is the default ResourceBinder with one table per stage.
type BindingTables struct {
	tables [stageCount]BindingTable
}

func (b *BindingTables) SetAddress(stage Stage, index int, address BufferAddress) {
	b.tables[stage][index] = address
}

func (b *BindingTables) Attach(encoder RenderEncoder, stage Stage) {
	// tables are passed by value, the encoder gets its own snapshot
	encoder.SetBindings(stage, b.tables[stage])
}

// Table returns a copy of the binding table of the stage.
func (b *BindingTables) Table(stage Stage) BindingTable {
	return b.tables[stage]
}
