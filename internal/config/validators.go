package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/idelchi/gogen/pkg/validator"

	"github.com/idelchi/sectorc/internal/keys"
	"github.com/idelchi/sectorc/pkg/blockcipher"
	"github.com/idelchi/sectorc/pkg/ciphermode"
)

// newValidator returns a validator with the custom tags and their messages registered,
// reporting fields by their flag names.
func newValidator() (*validator.Validator, error) {
	validate := validator.NewValidator()

	validate.Validator().RegisterTagNameFunc(func(fld reflect.StructField) string {
		const splitSize = 2

		name := strings.SplitN(fld.Tag.Get("label"), ",", splitSize)[0]
		if name == "-" || name == "" {
			return fld.Name
		}

		return name
	})

	custom := []struct {
		tag      string
		fn       func(validator.FieldLevel) bool
		template string
	}{
		{
			tag:      "exclusive",
			fn:       validateExclusive,
			template: "{0} is mutually exclusive with {1}",
		},
		{
			tag: "unitsize",
			fn:  validateUnitSize,
			template: fmt.Sprintf("{0} must be a multiple of %d between %d and %d",
				blockcipher.BlockSize, blockcipher.BlockSize, MaxUnitSize),
		},
		{
			tag:      "mode",
			fn:       parses(func(s string) error { _, err := ciphermode.ParseKind(s); return err }),
			template: fmt.Sprintf("{0} must be one of %v", ciphermode.Kinds()),
		},
		{
			tag:      "cipher",
			fn:       parses(func(s string) error { _, err := blockcipher.ParseAlgorithm(s); return err }),
			template: fmt.Sprintf("{0} must be one of %v", blockcipher.Algorithms()),
		},
		{
			tag:      "kdf",
			fn:       parses(parsePassphraseKDF),
			template: fmt.Sprintf("{0} must be one of %v", keys.KDFs()),
		},
	}

	for _, c := range custom {
		if err := validate.RegisterValidationAndTranslation(c.tag, c.fn, c.template); err != nil {
			return nil, fmt.Errorf("registering %s validation: %w", c.tag, err)
		}
	}

	return validate, nil
}

// validateExclusive fails when the field and any of the sibling fields, named by their
// space separated labels, are all non-empty.
func validateExclusive(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String || field.String() == "" {
		return true
	}

	parent := fl.Parent()

	for _, label := range strings.Fields(fl.Param()) {
		for i := range parent.NumField() {
			if parent.Type().Field(i).Tag.Get("label") != label {
				continue
			}

			if other := parent.Field(i); other.Kind() == reflect.String && other.String() != "" {
				return false
			}
		}
	}

	return true
}

// validateUnitSize accepts positive multiples of the block size up to MaxUnitSize.
func validateUnitSize(fl validator.FieldLevel) bool {
	if !fl.Field().CanInt() {
		return false
	}

	size := fl.Field().Int()

	return size >= blockcipher.BlockSize && size <= MaxUnitSize && size%blockcipher.BlockSize == 0
}

// parsePassphraseKDF accepts the KDFs that can stretch a passphrase.
func parsePassphraseKDF(s string) error {
	kdf, err := keys.ParseKDF(s)
	if err != nil {
		return err
	}

	if kdf == keys.KDFNone {
		return fmt.Errorf("%w: %q stretches nothing", keys.ErrUnknownKDF, s)
	}

	return nil
}

// parses builds a validator accepting strings that parse succeeds on.
func parses(parse func(string) error) func(validator.FieldLevel) bool {
	return func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String && parse(fl.Field().String()) == nil
	}
}
