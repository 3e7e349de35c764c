package models

type LoginForm struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Registration doubles as the /auth/register request body.
type Registration struct {
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	CustomerName string `json:"customerName" binding:"required"`
	PhoneNo      string `json:"phoneNo" binding:"required"`
	Street       string `json:"street" binding:"required"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	Zipcode      string `json:"zipcode" binding:"required"`
	Country      string `json:"country" binding:"required"`
}

type OtpForm struct {
	OTP string `json:"otp" binding:"required"`
}

type CheckoutForm struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Address    string `json:"address" binding:"required"`
	CreditCard string `json:"creditCard" binding:"required"`
}

// Fields returns the form values keyed by field name.
func (f LoginForm) Fields() map[string]string {
	return map[string]string{"email": f.Email, "password": f.Password}
}

func (r Registration) Fields() map[string]string {
	return map[string]string{
		"email":        r.Email,
		"password":     r.Password,
		"customerName": r.CustomerName,
		"phoneNo":      r.PhoneNo,
		"street":       r.Street,
		"city":         r.City,
		"state":        r.State,
		"zipcode":      r.Zipcode,
		"country":      r.Country,
	}
}

func (f OtpForm) Fields() map[string]string {
	return map[string]string{"otp": f.OTP}
}

func (f CheckoutForm) Fields() map[string]string {
	return map[string]string{
		"name":       f.Name,
		"email":      f.Email,
		"address":    f.Address,
		"creditCard": f.CreditCard,
	}
}

// FieldState is the current value of one form field and its last
// validation error, if any.
type FieldState struct {
	Value string `json:"value"`
	Error string `json:"error,omitempty"`
}

// FormState lives as long as the screen that owns it.
type FormState map[string]FieldState

func NewFormState() FormState {
	return make(FormState)
}

// SetValues records submitted values without touching existing errors.
func (f FormState) SetValues(values map[string]string) {
	for name, v := range values {
		fs := f[name]
		fs.Value = v
		f[name] = fs
	}
}

func (f FormState) SetError(field, msg string) {
	fs := f[field]
	fs.Error = msg
	f[field] = fs
}

func (f FormState) ClearError(field string) {
	fs, ok := f[field]
	if !ok {
		return
	}
	fs.Error = ""
	f[field] = fs
}

// Clone returns a copy that is safe to hand out. Password and card values
// are blanked.
func (f FormState) Clone() FormState {
	out := make(FormState, len(f))
	for k, v := range f {
		if k == "password" || k == "creditCard" {
			v.Value = ""
		}
		out[k] = v
	}
	return out
}
