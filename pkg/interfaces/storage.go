package interfaces

// FileReader supplies template and schema text to the rendering pipeline.
// Implementations wrap a filesystem, an embedded FS, or test fixtures; the
// pipeline itself never touches the disk directly.
type FileReader interface {
	Read(path string) (string, error)
}

// FileWriter receives rendered artifacts. The pipeline hands over the final
// text and the logical output path; durability and atomicity are the
// implementation's concern.
type FileWriter interface {
	Write(path string, content string) error
}
