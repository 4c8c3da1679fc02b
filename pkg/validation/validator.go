package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/graph"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	MaxNodes        = 10000
	MaxEdges        = 100000
	MaxNodeIDLength = 256
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// report json field names instead of Go ones
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	if err := validate.RegisterValidation("nodeid", validateNodeID); err != nil {
		panic(err)
	}
}

// validateNodeID rejects empty ids and ids containing the edge key
// separator, which would make edge keys ambiguous.
func validateNodeID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	return id != "" &&
		len(id) <= MaxNodeIDLength &&
		!strings.Contains(id, graph.EdgeKeySeparator)
}

// NetworkRequest is an inline network submitted for a one-off step
type NetworkRequest struct {
	Nodes []graph.NodeRecord `json:"nodes" validate:"max=10000,dive"`
	Edges []graph.EdgeRecord `json:"edges" validate:"max=100000,dive"`
}

// ValidateNetworkRequest validates an inline network. Edge endpoints are not
// checked against the node list here; the graph store reports those.
func ValidateNetworkRequest(req *NetworkRequest) error {
	if req == nil {
		return errors.New("network request cannot be nil")
	}
	return Struct(req)
}

// Struct validates any struct carrying validate tags.
func Struct(v any) error {
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError reports the first failure in a user-friendly form
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}

	e := validationErrs[0]
	// drop the root struct name: "NetworkRequest.nodes[1].id" -> "nodes[1].id"
	field := e.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s: field is required", field)
	case "min", "gte":
		return fmt.Errorf("%s: must be at least %s", field, e.Param())
	case "max", "lte":
		return fmt.Errorf("%s: must not exceed %s", field, e.Param())
	case "nodeid":
		return fmt.Errorf("%s: node id must be 1-%d characters without %q", field, MaxNodeIDLength, graph.EdgeKeySeparator)
	case "oneof":
		return fmt.Errorf("%s: must be one of [%s]", field, e.Param())
	default:
		return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
	}
}
