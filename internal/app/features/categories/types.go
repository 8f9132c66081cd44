// internal/app/features/categories/types.go
package categories

import (
	"github.com/dalemusser/ksef/internal/app/system/formutil"
	"github.com/dalemusser/ksef/internal/app/system/viewdata"
)

// categoryInput defines validation rules shared by create and edit.
type categoryInput struct {
	Name        string `validate:"required,max=100" label:"Name"`
	Description string `validate:"max=500" label:"Description"`
	Icon        string `validate:"max=50" label:"Icon"`
}

type categoryRow struct {
	ID           string
	Name         string
	Description  string
	Icon         string
	RequestCount int64
	OpenCount    int64
}

type listData struct {
	viewdata.BaseVM
	Categories []categoryRow
}

// formData backs both the new and edit pages. ID is empty when creating.
type formData struct {
	formutil.Base
	ID          string
	Name        string
	Description string
	Icon        string
}

func (f formData) Action() string {
	if f.ID == "" {
		return "/categories"
	}
	return "/categories/" + f.ID + "/edit"
}
