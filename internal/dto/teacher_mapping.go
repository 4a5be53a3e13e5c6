package dto

// UpsertTeacherMappingRequest links a source teacher id to a user account.
type UpsertTeacherMappingRequest struct {
	SourceTeacherID string `json:"source_teacher_id" validate:"required"`
	UserID          string `json:"user_id" validate:"required"`
	UserName        string `json:"user_name" validate:"required"`
}
