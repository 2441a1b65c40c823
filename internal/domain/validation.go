package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so messages match what the caller sent
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterStructValidation(occupancyLevel, RoomOccupancy{})
	v.RegisterStructValidation(stayLevel, SearchQuery{}, RoomsQuery{}, BookingRequest{})
	return v
}

// childAges must list one age per child.
func occupancyLevel(sl validator.StructLevel) {
	o := sl.Current().Interface().(RoomOccupancy)
	if len(o.ChildAges) != o.NumOfChildren {
		sl.ReportError(o.ChildAges, "childAges", "ChildAges", "len_eq_children", fmt.Sprint(o.NumOfChildren))
	}
}

func stayLevel(sl validator.StructLevel) {
	var in, out string
	switch q := sl.Current().Interface().(type) {
	case SearchQuery:
		in, out = q.CheckInDate, q.CheckOutDate
	case RoomsQuery:
		in, out = q.CheckInDate, q.CheckOutDate
	case BookingRequest:
		in, out = q.CheckInDate, q.CheckOutDate
	default:
		return
	}
	ci, err1 := time.Parse(DateLayout, in)
	co, err2 := time.Parse(DateLayout, out)
	if err1 != nil || err2 != nil {
		return // format errors are reported by the datetime tag
	}
	if !co.After(ci) {
		sl.ReportError(out, "checkOutDate", "CheckOutDate", "after_checkin", in)
	}
}

// Validate checks v against its struct tags and the cross-field rules above.
// Failures wrap ErrInvalidQuery.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidQuery, strings.Join(msgs, "; "))
}
