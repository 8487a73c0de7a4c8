package model

import (
	"encoding/json"
)

type ExtractionStatus string

const (
	ExtractionCompleted ExtractionStatus = "completed"
	ExtractionPartial   ExtractionStatus = "partial"
	ExtractionEmpty     ExtractionStatus = "empty"
)

// DocumentExtraction records the mapped fields of one Document AI run.
type DocumentExtraction struct {
	Base
	YachtID      *string          `gorm:"column:yacht_id;size:36;index" json:"yachtId,omitempty"`
	ProcessorID  string           `gorm:"column:processor_id;size:64;not null" json:"processorId"`
	DocumentType string           `gorm:"column:document_type;size:64" json:"documentType,omitempty"`
	FileName     string           `gorm:"column:file_name;size:255" json:"fileName,omitempty"`
	MimeType     string           `gorm:"column:mime_type;size:100" json:"mimeType"`
	ArchiveURI   string           `gorm:"column:archive_uri;size:500" json:"archiveUri,omitempty"`
	Fields       string           `gorm:"column:fields;type:text" json:"-"`
	EntityCount  int              `gorm:"column:entity_count" json:"entityCount"`
	Unmapped     int              `gorm:"column:unmapped_count" json:"unmappedCount"`
	Status       ExtractionStatus `gorm:"column:status;size:16;not null" json:"status"`
	CreatedBy    string           `gorm:"column:created_by;size:64;index" json:"createdBy"`
}

func (DocumentExtraction) TableName() string {
	return "document_extractions"
}

// SetFields stores v as the JSON fields column.
func (d *DocumentExtraction) SetFields(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	d.Fields = string(data)
	return nil
}

// DecodeFields unmarshals the fields column into v.
func (d *DocumentExtraction) DecodeFields(v any) error {
	if d.Fields == "" {
		return nil
	}
	return json.Unmarshal([]byte(d.Fields), v)
}
