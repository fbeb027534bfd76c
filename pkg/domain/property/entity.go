// Package property defines the property aggregate, search filters and the
// repository contract.
package property

import (
	"fmt"
	"time"

	"github.com/propertypassport/api/pkg/domain/shared"
)

// Type categorizes a property.
type Type string

const (
	TypeDetached     Type = "detached"
	TypeSemiDetached Type = "semi_detached"
	TypeTerraced     Type = "terraced"
	TypeFlat         Type = "flat"
	TypeBungalow     Type = "bungalow"
	TypeOther        Type = "other"
)

// IsValid checks if the property type is valid.
func (t Type) IsValid() bool {
	switch t {
	case TypeDetached, TypeSemiDetached, TypeTerraced, TypeFlat, TypeBungalow, TypeOther:
		return true
	}
	return false
}

// String returns the string representation of the type.
func (t Type) String() string { return string(t) }

// EPCRatings are the valid EPC rating bands, best to worst. Band ordering is
// lexicographic, which the range filters rely on.
var EPCRatings = []string{"A", "B", "C", "D", "E", "F", "G"}

// ValidEPCRating checks whether s is a recognized EPC band.
func ValidEPCRating(s string) bool {
	for _, r := range EPCRatings {
		if r == s {
			return true
		}
	}
	return false
}

// Property represents one property record.
type Property struct {
	id               shared.ID
	slug             string
	addressLine1     string
	addressLine2     string
	city             string
	postcode         string
	propertyType     Type
	bedrooms         int
	bathrooms        int
	price            int64 // pence
	epcRating        string
	publicVisibility bool
	createdBy        shared.ID
	createdAt        time.Time
	updatedAt        time.Time
}

// New creates a new Property. The slug is derived from the address.
func New(addressLine1, addressLine2, city, postcode string, propertyType Type, bedrooms, bathrooms int, price int64, epcRating string, createdBy shared.ID) (*Property, error) {
	if addressLine1 == "" {
		return nil, fmt.Errorf("%w: address line 1 is required", shared.ErrValidation)
	}
	if city == "" {
		return nil, fmt.Errorf("%w: city is required", shared.ErrValidation)
	}
	if postcode == "" {
		return nil, fmt.Errorf("%w: postcode is required", shared.ErrValidation)
	}
	if !propertyType.IsValid() {
		return nil, fmt.Errorf("%w: invalid property type %q", shared.ErrValidation, propertyType)
	}
	if bedrooms < 0 || bathrooms < 0 {
		return nil, fmt.Errorf("%w: bedrooms and bathrooms cannot be negative", shared.ErrValidation)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", shared.ErrValidation)
	}
	if epcRating != "" && !ValidEPCRating(epcRating) {
		return nil, fmt.Errorf("%w: invalid EPC rating %q", shared.ErrValidation, epcRating)
	}
	if createdBy.IsZero() {
		return nil, fmt.Errorf("%w: createdBy is required", shared.ErrValidation)
	}

	now := time.Now().UTC()
	return &Property{
		id:           shared.NewID(),
		slug:         GenerateSlug(addressLine1, city, postcode),
		addressLine1: addressLine1,
		addressLine2: addressLine2,
		city:         city,
		postcode:     postcode,
		propertyType: propertyType,
		bedrooms:     bedrooms,
		bathrooms:    bathrooms,
		price:        price,
		epcRating:    epcRating,
		createdBy:    createdBy,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstitute recreates a Property from persistence.
func Reconstitute(
	id shared.ID,
	slug, addressLine1, addressLine2, city, postcode string,
	propertyType Type,
	bedrooms, bathrooms int,
	price int64,
	epcRating string,
	publicVisibility bool,
	createdBy shared.ID,
	createdAt, updatedAt time.Time,
) *Property {
	return &Property{
		id:               id,
		slug:             slug,
		addressLine1:     addressLine1,
		addressLine2:     addressLine2,
		city:             city,
		postcode:         postcode,
		propertyType:     propertyType,
		bedrooms:         bedrooms,
		bathrooms:        bathrooms,
		price:            price,
		epcRating:        epcRating,
		publicVisibility: publicVisibility,
		createdBy:        createdBy,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// ID returns the property ID.
func (p *Property) ID() shared.ID { return p.id }

// Slug returns the URL slug.
func (p *Property) Slug() string { return p.slug }

// AddressLine1 returns the first address line.
func (p *Property) AddressLine1() string { return p.addressLine1 }

// AddressLine2 returns the second address line, possibly empty.
func (p *Property) AddressLine2() string { return p.addressLine2 }

// City returns the city.
func (p *Property) City() string { return p.city }

// Postcode returns the postcode.
func (p *Property) Postcode() string { return p.postcode }

// PropertyType returns the property type.
func (p *Property) PropertyType() Type { return p.propertyType }

// Bedrooms returns the bedroom count.
func (p *Property) Bedrooms() int { return p.bedrooms }

// Bathrooms returns the bathroom count.
func (p *Property) Bathrooms() int { return p.bathrooms }

// Price returns the asking price in pence.
func (p *Property) Price() int64 { return p.price }

// EPCRating returns the EPC band, empty if unknown.
func (p *Property) EPCRating() string { return p.epcRating }

// PublicVisibility reports whether the record is publicly discoverable.
func (p *Property) PublicVisibility() bool { return p.publicVisibility }

// CreatedBy returns the creating user's ID.
func (p *Property) CreatedBy() shared.ID { return p.createdBy }

// CreatedAt returns the creation time.
func (p *Property) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last update time.
func (p *Property) UpdatedAt() time.Time { return p.updatedAt }

// UpdateDetails updates the mutable detail fields.
func (p *Property) UpdateDetails(propertyType Type, bedrooms, bathrooms int, price int64, epcRating string) error {
	if !propertyType.IsValid() {
		return fmt.Errorf("%w: invalid property type %q", shared.ErrValidation, propertyType)
	}
	if bedrooms < 0 || bathrooms < 0 {
		return fmt.Errorf("%w: bedrooms and bathrooms cannot be negative", shared.ErrValidation)
	}
	if price < 0 {
		return fmt.Errorf("%w: price cannot be negative", shared.ErrValidation)
	}
	if epcRating != "" && !ValidEPCRating(epcRating) {
		return fmt.Errorf("%w: invalid EPC rating %q", shared.ErrValidation, epcRating)
	}
	p.propertyType = propertyType
	p.bedrooms = bedrooms
	p.bathrooms = bathrooms
	p.price = price
	p.epcRating = epcRating
	p.updatedAt = time.Now().UTC()
	return nil
}

// SetPublicVisibility toggles public discoverability.
func (p *Property) SetPublicVisibility(visible bool) {
	p.publicVisibility = visible
	p.updatedAt = time.Now().UTC()
}

// SetSlug replaces the slug. Used by slug regeneration after a uniqueness
// check against the repository.
func (p *Property) SetSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("%w: slug is required", shared.ErrValidation)
	}
	p.slug = slug
	p.updatedAt = time.Now().UTC()
	return nil
}
