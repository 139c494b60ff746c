package types

import (
	"fmt"
	"time"
)

// ProjectFile is a file attached to a project. Only rows flagged as
// deliverable are ever exposed to the client tracking flow.
type ProjectFile struct {
	ID            string    `db:"id" json:"id"`
	ProjectID     string    `db:"project_id" json:"-"`
	FileName      string    `db:"file_name" json:"file_name"`
	FileSize      int64     `db:"file_size" json:"file_size"`
	FileType      string    `db:"file_type" json:"file_type"`
	StoragePath   string    `db:"storage_path" json:"storage_path"`
	IsDeliverable bool      `db:"is_deliverable" json:"-"`
	UploadedBy    *string   `db:"uploaded_by" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

func (f *ProjectFile) Validate() error {
	if f.ID == "" || f.ProjectID == "" {
		return fmt.Errorf("project file row missing identifiers")
	}
	if f.StoragePath == "" {
		return fmt.Errorf("project file %s missing storage path", f.ID)
	}
	return nil
}

type FileDownload struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}
