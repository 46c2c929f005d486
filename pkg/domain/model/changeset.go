package model

// ChangeSet accumulates the file paths to include in the next commit,
// together with the model directories touched during the run. It is built
// incrementally by the pipeline and consumed exactly once by the publisher.
type ChangeSet struct {
	files   []string
	touched []ModelName
	dirs    map[ModelName]string
}

// NewChangeSet creates an empty ChangeSet
func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		dirs: make(map[ModelName]string),
	}
}

// AddFile registers a path for the next commit
func (x *ChangeSet) AddFile(path string) {
	x.files = append(x.files, path)
}

// Touch records that a model directory received a new result. The
// first-touch order is preserved; touching the same model again is a no-op.
func (x *ChangeSet) Touch(name ModelName, dir string) {
	if _, ok := x.dirs[name]; ok {
		return
	}
	x.dirs[name] = dir
	x.touched = append(x.touched, name)
}

// Files returns the registered paths in insertion order
func (x *ChangeSet) Files() []string {
	return x.files
}

// TouchedModels returns the touched models in first-touch order
func (x *ChangeSet) TouchedModels() []ModelName {
	return x.touched
}

// Dir returns the directory recorded for a touched model
func (x *ChangeSet) Dir(name ModelName) string {
	return x.dirs[name]
}

// Empty reports whether nothing was staged. An empty ChangeSet must never
// reach the publisher: an empty commit is not a valid outcome.
func (x *ChangeSet) Empty() bool {
	return len(x.files) == 0
}
