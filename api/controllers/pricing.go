package controllers

import (
	"net/http"

	"github.com/pasarseni/pasarseni-backend/api/responses"
	"github.com/pasarseni/pasarseni-backend/pkg/currency"
)

// PricingGuidelines serves the marketplace price bands artists list against.
func PricingGuidelines() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, currency.Guidelines())
	}
}
