package apperr

import "github.com/tuanvumaihuynh/catalog-pricing/pkg/zerror"

const (
	ValidationErrorCode    = "VALIDATION_FAILED"
	PriceNotNumericCode    = "PRICE_NOT_NUMERIC"
	PriceInvalidFormatCode = "PRICE_INVALID_FORMAT"
	PriceTooHighCode       = "PRICE_TOO_HIGH"
	ResourceNotFoundCode   = "RESOURCE_NOT_FOUND"
	ActionNotAllowedCode   = "ACTION_NOT_ALLOWED"
	EditNotAllowedCode     = "EDIT_NOT_ALLOWED"
	UserNotFoundCode       = "USER_NOT_FOUND"
	CatalogUnavailableCode = "CATALOG_UNAVAILABLE"
	InvalidProductIDCode   = "INVALID_PRODUCT_ID"
	UnknownActingUserCode  = "UNKNOWN_ACTING_USER"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	PriceNotNumericErr    = zerror.NewValidationFailed(PriceNotNumericCode, "Only numbers are allowed")
	PriceInvalidFormatErr = zerror.NewValidationFailed(PriceInvalidFormatCode, "Invalid price format")
	PriceTooHighErr       = zerror.NewValidationFailed(PriceTooHighCode, "The max possible price is 999.99")

	ResourceNotFoundErr = zerror.NewNotFound(ResourceNotFoundCode, "product not found")
	UserNotFoundErr     = zerror.NewNotFound(UserNotFoundCode, "user not found")

	ActionNotAllowedErr = zerror.NewForbidden(ActionNotAllowedCode, "Only admins can edit the price of a product")
	EditNotAllowedErr   = zerror.NewForbidden(EditNotAllowedCode, "Only admin users can edit the price of a product")

	InvalidProductIDErr  = zerror.NewBadRequest(InvalidProductIDCode, "product id must be an integer")
	UnknownActingUserErr = zerror.NewUnauthorized(UnknownActingUserCode, "unknown acting user")

	CatalogUnavailableErr = zerror.NewBadGateway(CatalogUnavailableCode, "catalog service unavailable")
)

// Kind is the closed set of outcomes a workflow can end with.
type Kind uint8

const (
	KindNone Kind = iota
	KindValidation
	KindNotFound
	KindNotAllowed
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindNotAllowed:
		return "not_allowed"
	default:
		return "unexpected"
	}
}

// KindOf classifies err. Anything that is not a known application error is KindUnexpected.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	zErr, ok := zerror.From(err)
	if !ok {
		return KindUnexpected
	}

	switch zErr.Status() {
	case zerror.StatusValidationFailed, zerror.StatusBadRequest:
		return KindValidation
	case zerror.StatusNotFound:
		return KindNotFound
	case zerror.StatusForbidden, zerror.StatusUnauthorized:
		return KindNotAllowed
	default:
		return KindUnexpected
	}
}
