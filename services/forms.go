package services

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate = validator.New()
	slugRe   = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

func init() {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRe.MatchString(fl.Field().String())
	})
}

// PostForm is the user input for creating or editing a post.
type PostForm struct {
	Text    string `json:"text" validate:"required,max=20000"`
	GroupID *uint  `json:"group" validate:"omitempty,gt=0"`
	Image   string `json:"image" validate:"omitempty,max=512"`
}

// CommentForm is the user input for a comment.
type CommentForm struct {
	Text string `json:"text" validate:"required,max=5000"`
}

// GroupForm is the admin input for a new group.
type GroupForm struct {
	Title       string `json:"title" validate:"required,max=200"`
	Slug        string `json:"slug" validate:"required,max=50,slug"`
	Description string `json:"description" validate:"required"`
}

// RegisterForm is the input for a new account.
type RegisterForm struct {
	Username string `json:"username" validate:"required,max=150,alphanum"`
	FullName string `json:"full_name" validate:"max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// validateForm runs the struct tags and converts failures into a *ValidationError.
func validateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = messageFor(fe)
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "slug":
		return "may contain only letters, digits, hyphens and underscores"
	case "alphanum":
		return "may contain only letters and digits"
	default:
		return "is invalid"
	}
}
