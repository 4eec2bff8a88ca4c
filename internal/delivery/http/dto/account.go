package dto

type UpdateMeRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}
