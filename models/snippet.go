package models

// Snippet is one sentence-level unit of source text, shown as example
// context for the vocabulary extracted from it. The id is the sha256 hex
// digest of the text.
type Snippet struct {
	ID             string   `bson:"id" json:"id"`
	Text           string   `bson:"text" json:"text"`
	Trans          string   `bson:"trans" json:"trans"`
	TransModel     string   `bson:"trans_model" json:"trans_model"`
	TargetLanguage string   `bson:"target_language" json:"target_language"`
	UserLanguage   string   `bson:"user_language" json:"user_language"`
	Lemmas         []string `bson:"lemmas" json:"lemmas"`
	SourceType     string   `bson:"source_type" json:"source_type"`
	SourcePath     string   `bson:"source_path" json:"source_path"`
	MediaIndex     int      `bson:"media_index" json:"media_index"` // monotonic position within the source
}
