package domain

import "time"

// Category is the top-level grouping of trades ("Bâtiment", "Services", ...).
// Deleting a category cascades to its specialties; the write path refuses the
// cascade while any artisan still hangs under the category.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex:uq_categories_name" json:"name"`

	Specialties []Specialty `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"specialties,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Category) TableName() string { return "categories" }

// Specialty is a trade within a category. The same specialty name may exist
// under different categories, hence the composite unique index.
type Specialty struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"size:100;not null;uniqueIndex:uq_specialties_name_category" json:"name"`
	CategoryID uint   `gorm:"not null;index;uniqueIndex:uq_specialties_name_category" json:"categoryId"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Artisans []Artisan `gorm:"foreignKey:SpecialtyID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"artisans,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Specialty) TableName() string { return "specialties" }

// Artisan is a directory entry for a tradesperson or business.
type Artisan struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	CompanyName string   `gorm:"size:200;not null;index" json:"companyName"`
	ContactName string   `gorm:"size:100" json:"contactName,omitempty"`
	Email       string   `gorm:"size:150;not null;uniqueIndex:uq_artisans_email" json:"email"`
	Phone       string   `gorm:"size:20" json:"phone,omitempty"`
	Address     string   `gorm:"type:text" json:"address,omitempty"`
	PostalCode  string   `gorm:"size:10" json:"postalCode,omitempty"`
	City        string   `gorm:"size:100;index" json:"city,omitempty"`
	Department  string   `gorm:"size:100;index" json:"department,omitempty"`
	Latitude    *float64 `gorm:"type:decimal(10,8)" json:"latitude,omitempty"`
	Longitude   *float64 `gorm:"type:decimal(11,8)" json:"longitude,omitempty"`
	Rating      float64  `gorm:"type:decimal(2,1);not null;default:0;index" json:"rating"`
	Description string   `gorm:"size:2000" json:"description,omitempty"`
	Website     string   `gorm:"size:255" json:"website,omitempty"`
	ImageURL    string   `gorm:"size:255" json:"imageUrl,omitempty"`
	Featured    bool     `gorm:"not null;default:false;index" json:"featured"`
	SpecialtyID uint     `gorm:"not null;index" json:"specialtyId"`

	Specialty *Specialty `gorm:"foreignKey:SpecialtyID" json:"specialty,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Artisan) TableName() string { return "artisans" }

// FormattedAddress joins the optional address parts into a single line.
func (a *Artisan) FormattedAddress() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Address, a.PostalCode, a.City, a.Department} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// StarRating breaks the decimal rating into full/half/empty stars for display.
type StarRating struct {
	Full   int     `json:"fullStars"`
	Half   bool    `json:"hasHalfStar"`
	Empty  int     `json:"emptyStars"`
	Rating float64 `json:"rating"`
}

func (a *Artisan) StarRating() StarRating {
	full := int(a.Rating)
	half := a.Rating-float64(full) >= 0.5
	empty := 5 - full
	if half {
		empty--
	}
	return StarRating{Full: full, Half: half, Empty: empty, Rating: a.Rating}
}
