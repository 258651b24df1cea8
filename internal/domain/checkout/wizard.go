// internal/domain/checkout/wizard.go
package checkout

import (
	"errors"
	"strings"
	"time"

	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/pkg/validate"
)

// Step identifies a checkout wizard step
type Step int

const (
	StepShipping Step = iota + 1
	StepPayment
	StepReview

	maxStep = StepReview
)

// String returns the step name
func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

// ErrUnknownPromo is returned for a promo code not in the table. The wizard
// state is left unchanged.
var ErrUnknownPromo = errors.New("invalid promo code")

// FieldErrors maps field names to validation messages. A step only advances
// when its FieldErrors come back empty.
type FieldErrors map[string]string

// Ok reports whether validation passed
func (f FieldErrors) Ok() bool {
	return len(f) == 0
}

// PaymentForm carries the raw payment step input. It is validated and then
// reduced to an order.PaymentRecord; the raw card fields never reach a store.
type PaymentForm struct {
	Method     string `json:"method"` // "card" or "paypal"
	CardNumber string `json:"cardNumber,omitempty"`
	CardName   string `json:"cardName,omitempty"`
	ExpiryDate string `json:"expiryDate,omitempty"`
	CVV        string `json:"cvv,omitempty"`
}

// Session is the explicit state of the checkout wizard: the current step plus
// everything captured by validated steps. All transitions go through Apply.
type Session struct {
	Step          Step                `json:"step"`
	Shipping      order.ShippingInfo  `json:"shipping"`
	ShippingValid bool                `json:"shippingValid"`
	Payment       order.PaymentRecord `json:"payment"`
	PaymentValid  bool                `json:"paymentValid"`
	PromoCode     string              `json:"promoCode,omitempty"`
}

// NewSession returns a wizard at the shipping step
func NewSession() *Session {
	return &Session{Step: StepShipping}
}

// Command is a typed wizard transition request
type Command interface {
	isCommand()
}

// SetShipping captures the shipping step form
type SetShipping struct {
	Form order.ShippingInfo
}

// SetPayment captures the payment step form
type SetPayment struct {
	Form PaymentForm
}

// ApplyPromo applies a promo code, replacing any previously applied one
type ApplyPromo struct {
	Code string
}

// RemovePromo clears the applied promo code
type RemovePromo struct{}

// Next advances to the following step if the current one validates
type Next struct{}

// Prev returns to the previous step
type Prev struct{}

func (SetShipping) isCommand() {}
func (SetPayment) isCommand()  {}
func (ApplyPromo) isCommand()  {}
func (RemovePromo) isCommand() {}
func (Next) isCommand()        {}
func (Prev) isCommand()        {}

// Apply is the wizard's single transition function. It mutates the session
// only when the command is accepted; a rejected command returns field errors
// or an error and leaves the state untouched.
func (s *Session) Apply(cmd Command, now time.Time) (FieldErrors, error) {
	switch c := cmd.(type) {
	case SetShipping:
		fields := ValidateShipping(c.Form)
		if !fields.Ok() {
			return fields, nil
		}
		c.Form.ShippingMethod = normalizeShippingMethod(c.Form.ShippingMethod)
		s.Shipping = c.Form
		s.ShippingValid = true
		return nil, nil

	case SetPayment:
		fields := ValidatePayment(c.Form, now)
		if !fields.Ok() {
			return fields, nil
		}
		s.Payment = sanitizePayment(c.Form)
		s.PaymentValid = true
		return nil, nil

	case ApplyPromo:
		if _, ok := LookupPromo(c.Code); !ok {
			return nil, ErrUnknownPromo
		}
		s.PromoCode = strings.ToUpper(strings.TrimSpace(c.Code))
		return nil, nil

	case RemovePromo:
		s.PromoCode = ""
		return nil, nil

	case Next:
		switch s.Step {
		case StepShipping:
			if !s.ShippingValid {
				return FieldErrors{"shipping": "complete the shipping step first"}, nil
			}
		case StepPayment:
			if !s.PaymentValid {
				return FieldErrors{"payment": "complete the payment step first"}, nil
			}
		}
		if s.Step < maxStep {
			s.Step++
		}
		return nil, nil

	case Prev:
		if s.Step > StepShipping {
			s.Step--
		}
		return nil, nil

	default:
		return nil, errors.New("unknown checkout command")
	}
}

// ReadyToPlace reports whether the wizard reached the review step with both
// earlier steps validated
func (s *Session) ReadyToPlace() bool {
	return s.Step == StepReview && s.ShippingValid && s.PaymentValid
}

// AppliedPromo resolves the session's promo code against the table
func (s *Session) AppliedPromo() *Promo {
	if s.PromoCode == "" {
		return nil
	}
	promo, ok := LookupPromo(s.PromoCode)
	if !ok {
		return nil
	}
	return promo
}

// ValidateShipping runs the shipping step field validation
func ValidateShipping(f order.ShippingInfo) FieldErrors {
	fields := FieldErrors{}

	required := map[string]string{
		"firstName": f.FirstName,
		"lastName":  f.LastName,
		"email":     f.Email,
		"phone":     f.Phone,
		"address":   f.Address,
		"city":      f.City,
		"state":     f.State,
		"zipCode":   f.ZipCode,
		"country":   f.Country,
	}
	for name, value := range required {
		if !validate.Required(value) {
			fields[name] = "This field is required"
		}
	}

	if _, present := fields["email"]; !present && !validate.Email(f.Email) {
		fields["email"] = "Please enter a valid email address"
	}
	if _, present := fields["phone"]; !present && !validate.Phone(f.Phone) {
		fields["phone"] = "Please enter a valid phone number"
	}
	if _, present := fields["zipCode"]; !present && !validate.PostalCode(f.ZipCode, f.Country) {
		fields["zipCode"] = "Please enter a valid ZIP/postal code"
	}
	if f.ShippingMethod != "" {
		if _, ok := shippingMethodByID(f.ShippingMethod); !ok {
			fields["shippingMethod"] = "Please select a valid shipping method"
		}
	}

	return fields
}

// ValidatePayment runs the payment step field validation
func ValidatePayment(f PaymentForm, now time.Time) FieldErrors {
	fields := FieldErrors{}

	switch f.Method {
	case "paypal":
		return fields
	case "card":
	default:
		fields["method"] = "Please select a payment method"
		return fields
	}

	if !validate.Required(f.CardNumber) {
		fields["cardNumber"] = "This field is required"
	} else if !validate.CardNumber(f.CardNumber) {
		fields["cardNumber"] = "Please enter a valid card number"
	}

	if !validate.Required(f.CardName) {
		fields["cardName"] = "This field is required"
	}

	if !validate.Required(f.ExpiryDate) {
		fields["expiryDate"] = "This field is required"
	} else if !validate.Expiry(f.ExpiryDate, now) {
		fields["expiryDate"] = "Please enter a valid expiry date (MM/YY)"
	}

	if !validate.Required(f.CVV) {
		fields["cvv"] = "This field is required"
	} else if !validate.CVV(f.CVV) {
		fields["cvv"] = "Please enter a valid CVV"
	}

	return fields
}

// sanitizePayment reduces the raw payment form to its durable projection.
// The raw card number, expiry and CVV are discarded here and nowhere else.
func sanitizePayment(f PaymentForm) order.PaymentRecord {
	record := order.PaymentRecord{Method: f.Method}
	if f.Method == "card" {
		record.CardholderName = f.CardName
		record.MaskedCardNumber = order.MaskCardNumber(f.CardNumber)
	}
	return record
}

func normalizeShippingMethod(id string) string {
	if id == "" {
		return "standard"
	}
	return id
}
