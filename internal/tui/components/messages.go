package components

import "github.com/Veraticus/dcb-calc/internal/model"

// LoginSubmitMsg requests a login with the entered credentials.
type LoginSubmitMsg struct {
	Credentials model.Credentials
}
