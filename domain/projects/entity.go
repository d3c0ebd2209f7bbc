package projects

// DeleteResult reports what a project teardown removed from each store. A
// false flag with a nil error means the store had nothing to remove; a
// non-nil error means that store's delete threw.
type DeleteResult struct {
	ProjectID     string `json:"projectId"`
	CorpusDeleted bool   `json:"corpusDeleted"`
	GraphDeleted  bool   `json:"graphDeleted"`
	CorpusErr     error  `json:"-"`
	GraphErr      error  `json:"-"`
}
