// internal/app/features/register/types.go
package register

import (
	"github.com/dalemusser/ksef/internal/app/policy/requestpolicy"
	"github.com/dalemusser/ksef/internal/app/system/formutil"
)

// registerInput carries the sign-up rules. Passwords are not trimmed.
type registerInput struct {
	Username  string `validate:"required,max=150" label:"Username"`
	FirstName string `validate:"required,max=30" label:"First name"`
	LastName  string `validate:"required,max=30" label:"Last name"`
	Email     string `validate:"required,email" label:"Email"`
	Password1 string `validate:"required,min=8" label:"Password"`
	Password2 string `validate:"required,eqfield=Password1" label:"Password confirmation"`
	UserType  string `validate:"required,oneof=community_member volunteer ngo admin" label:"User type"`
	Phone     string `validate:"max=15" label:"Phone"`
	Address   string `label:"Address"`
}

// formData echoes everything but the passwords.
type formData struct {
	formutil.Base
	Username  string
	FirstName string
	LastName  string
	Email     string
	UserType  string
	Phone     string
	Address   string
	Roles     []requestpolicy.RoleOption
}
