// Package validation holds the field constraints of categories and videos.
// The rules are registered on gin's binding engine so JSON binding, form
// posts and partial patches all share them.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ad-tracker/video-catalog-go/internal/db/models"
)

// Field limits.
const (
	TitleMinLen        = 1
	TitleMaxLen        = 128
	CategoryNameMinLen = 3
	CategoryNameMaxLen = 15
	YouTubeCodeLen     = 11
)

// youtubeCodeTag is the validator tag used in binding struct tags.
const youtubeCodeTag = "youtube_code"

var youtubeCodeRegex = regexp.MustCompile(`^[^ ]{11}$`)

// IsValidYouTubeCode reports whether code is an 11-character token with no spaces.
func IsValidYouTubeCode(code string) bool {
	return youtubeCodeRegex.MatchString(code)
}

// Validator checks request payloads.
type Validator struct {
	validate *validator.Validate
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
)

// Default returns a Validator backed by gin's binding engine, registering
// the catalog rules on first use.
func Default() *Validator {
	defaultOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			engine = validator.New()
			engine.SetTagName("binding")
		}
		defaultValidator = New(engine)
	})
	return defaultValidator
}

// New configures v with the catalog rules and wraps it.
func New(v *validator.Validate) *Validator {
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation(youtubeCodeTag, func(fl validator.FieldLevel) bool {
		return IsValidYouTubeCode(fl.Field().String())
	}); err != nil {
		// Only fails for an empty tag or nil func.
		panic(fmt.Sprintf("register %s validation: %v", youtubeCodeTag, err))
	}
	return &Validator{validate: v}
}

// Struct validates a struct carrying binding tags and returns FieldErrors
// on failure.
func (v *Validator) Struct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		if fieldErrs, ok := AsFieldErrors(err); ok {
			return fieldErrs
		}
		return err
	}
	return nil
}

// VideoPatch validates only the fields present in the patch.
func (v *Validator) VideoPatch(patch *models.VideoPatch) error {
	errs := FieldErrors{}

	if patch.Has(models.FieldTitle) {
		if err := v.validate.Var(patch.Title, fmt.Sprintf("min=%d,max=%d", TitleMinLen, TitleMaxLen)); err != nil {
			errs[models.FieldTitle] = titleMessage
		}
	}
	if patch.Has(models.FieldYouTubeCode) {
		if err := v.validate.Var(patch.YouTubeCode, youtubeCodeTag); err != nil {
			errs[models.FieldYouTubeCode] = youtubeCodeMessage
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

var (
	titleMessage       = fmt.Sprintf("must be between %d and %d characters", TitleMinLen, TitleMaxLen)
	youtubeCodeMessage = fmt.Sprintf("must be %d characters without spaces", YouTubeCodeLen)
)

// FieldErrors maps a field's JSON name to a readable message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+" "+e[field])
	}
	return strings.Join(parts, "; ")
}

// AsFieldErrors converts validator or FieldErrors failures. It reports false
// for any other kind of error.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fieldErrs FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs, true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out, true
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case youtubeCodeTag:
		return youtubeCodeMessage
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}
