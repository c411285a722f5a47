package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signupInput struct {
	Phone    string `json:"phone"    validate:"required,digits=10"`
	Name     string `json:"name"     validate:"required,min=1,max=80"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type productInput struct {
	Name         string  `json:"name"         validate:"required,min=1"`
	MRP          float64 `json:"mrp"          validate:"required,gte=0"`
	SellingPrice float64 `json:"sellingPrice" validate:"gte=0"`
	Stock        int     `json:"stock"        validate:"gte=0"`
	Visible      bool    `json:"visible"      validate:"boolean"`
	Image        string  `json:"image"        validate:"nullable,url"`
	Sort         string  `json:"sort"         validate:"nullable,in=price_asc,price_desc,newest"`
}

type addressInput struct {
	Line1   string `json:"line1"   validate:"required,min=3"`
	City    string `json:"city"    validate:"required,min=2"`
	Pincode string `json:"pincode" validate:"required,min=4,max=10"`
}

type nestedInput struct {
	Phone   string       `json:"phone" validate:"required,digits=10"`
	Address addressInput `json:"address"`
}

func TestStructValid(t *testing.T) {
	errs := Struct(signupInput{Phone: "4561231223", Name: "Test User", Password: "user123"})
	assert.Empty(t, errs)
}

func TestRequired(t *testing.T) {
	errs := Struct(signupInput{Phone: "4561231223", Password: "user123"})
	assert.Contains(t, errs, "name")
}

func TestDigits(t *testing.T) {
	for _, phone := range []string{"123", "abcdefghij", "45612312234", ""} {
		errs := Struct(signupInput{Phone: phone, Name: "x", Password: "secret1"})
		assert.Contains(t, errs, "phone", "phone=%q should fail", phone)
	}
}

func TestMinMaxOnStrings(t *testing.T) {
	errs := Struct(signupInput{Phone: "4561231223", Name: "x", Password: "short"})
	assert.Equal(t, "The password must be at least 6 characters.", errs["password"])
}

func TestGteOnNumbers(t *testing.T) {
	errs := Struct(productInput{Name: "Serum", MRP: 599, SellingPrice: -1})
	assert.Contains(t, errs, "sellingPrice")

	errs = Struct(productInput{Name: "Serum", MRP: 599, SellingPrice: 399, Stock: -5})
	assert.Contains(t, errs, "stock")
}

func TestNullableSkipsEmpty(t *testing.T) {
	errs := Struct(productInput{Name: "Serum", MRP: 599})
	assert.NotContains(t, errs, "image")
	assert.NotContains(t, errs, "sort")
}

func TestURLRule(t *testing.T) {
	errs := Struct(productInput{Name: "Serum", MRP: 599, Image: "not-a-url"})
	assert.Contains(t, errs, "image")

	errs = Struct(productInput{Name: "Serum", MRP: 599, Image: "https://cdn.example.com/serum.jpg"})
	assert.NotContains(t, errs, "image")
}

func TestInRuleKeepsMultiValueParams(t *testing.T) {
	errs := Struct(productInput{Name: "Serum", MRP: 599, Sort: "price_desc"})
	assert.NotContains(t, errs, "sort")

	errs = Struct(productInput{Name: "Serum", MRP: 599, Sort: "bogus"})
	assert.Equal(t, "The selected sort is invalid.", errs["sort"])
}

func TestNestedStructValidation(t *testing.T) {
	errs := Struct(nestedInput{Phone: "4561231223", Address: addressInput{Line1: "MG Road", City: "Mumbai", Pincode: "400001"}})
	assert.Empty(t, errs)

	errs = Struct(nestedInput{Phone: "4561231223", Address: addressInput{Line1: "x"}})
	assert.Contains(t, errs, "address.line1")
	assert.Contains(t, errs, "address.city")
}

func TestFirstFailingRuleWins(t *testing.T) {
	errs := Struct(signupInput{})
	assert.Equal(t, "The phone field is required.", errs["phone"])
}
