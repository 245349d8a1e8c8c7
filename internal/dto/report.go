package dto

// ReportQuery filters report endpoints.
type ReportQuery struct {
	SchoolCode string `form:"schoolCode"`
	Program    string `form:"program"`
	Format     string `form:"format" validate:"omitempty,oneof=json csv pdf xlsx"`
}

// ExportFile is a rendered report ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}
