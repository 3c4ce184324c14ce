package validator

import "testing"

type sampleRequest struct {
	Email         string `json:"email" validate:"required,email"`
	PaymentMethod string `json:"payment_method" validate:"required,payment_method"`
	Resolution    string `json:"resolution" validate:"omitempty,resolution"`
}

func TestValidateOK(t *testing.T) {
	req := sampleRequest{
		Email:         "buyer@example.com",
		PaymentMethod: "paypal",
		Resolution:    "partial_refund",
	}
	if details := Validate(req); details != nil {
		t.Errorf("unexpected errors: %v", details)
	}
}

func TestValidateFieldErrors(t *testing.T) {
	req := sampleRequest{
		Email:         "not-an-email",
		PaymentMethod: "cash",
		Resolution:    "flip_a_coin",
	}

	details := Validate(req)
	if details == nil {
		t.Fatal("expected validation errors")
	}
	// Error keys use the json tag names
	for _, field := range []string{"email", "payment_method", "resolution"} {
		if _, ok := details[field]; !ok {
			t.Errorf("missing error for %q: %v", field, details)
		}
	}
}

func TestValidateRequired(t *testing.T) {
	details := Validate(sampleRequest{})
	if details == nil {
		t.Fatal("expected validation errors")
	}
	if _, ok := details["email"]; !ok {
		t.Errorf("missing required error for email: %v", details)
	}
	if _, ok := details["resolution"]; ok {
		t.Errorf("omitempty field should not error when empty: %v", details)
	}
}
