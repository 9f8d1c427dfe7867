package animals

import (
	"github.com/dmitrymomot/formkit/pkg/binder"
	"github.com/dmitrymomot/formkit/pkg/pixbuf"
)

// AnimalDesc is sent as a JSON encoded field.
type AnimalDesc struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// IsAnimal reports whether the described kind is one the service accepts.
func (d AnimalDesc) IsAnimal() bool {
	switch d.Kind {
	case "dog", "cat":
		return true
	default:
		return false
	}
}

// IsAnimalRequest is the multipart body of POST /is_animal.
type IsAnimalRequest struct {
	Img        binder.File[*pixbuf.Buffer]
	AnimalDesc AnimalDesc
}

// FormRequest is the body of POST /is_animal/form, sent either URL-encoded
// or as multipart.
type FormRequest struct {
	AnimalDesc AnimalDesc
}

func isAnimalSchema() *binder.Schema[IsAnimalRequest] {
	return binder.NewSchema(
		binder.Required("img", binder.FileOf(binder.RGB()), func(r *IsAnimalRequest) *binder.File[*pixbuf.Buffer] {
			return &r.Img
		}),
		binder.Required("animal_desc", binder.JSON[AnimalDesc](), func(r *IsAnimalRequest) *AnimalDesc {
			return &r.AnimalDesc
		}),
	)
}

func formSchema() *binder.Schema[FormRequest] {
	return binder.NewSchema(
		binder.Required("animal_desc", binder.JSON[AnimalDesc](), func(r *FormRequest) *AnimalDesc {
			return &r.AnimalDesc
		}),
	)
}
