package bundle

// MetaFileName is the manifest sidecar written into every staging directory.
const MetaFileName = "meta.json"

// Meta describes a staged bundle: when it was uploaded and what it holds.
// It is the only durable record of the staging directory's contents.
type Meta struct {
	UploadedAt string     `json:"uploaded_at"`
	Files      []FileMeta `json:"files"`
}

type FileMeta struct {
	Name     string  `json:"name"`
	Size     int64   `json:"size"`
	Mtime    *string `json:"mtime"`
	Mime     string  `json:"mime"`
	Kind     string  `json:"kind"`
	Checksum *string `json:"checksum"`
}
