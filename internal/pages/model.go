package pages

import "gorm.io/gorm"

// OfficePage represents one localized office service page. The
// (state_office_token, area_served_token, service_token) triple is the
// business key and is unique across all rows.
type OfficePage struct {
	gorm.Model
	StateOfficeToken string `gorm:"size:100;not null;uniqueIndex:idx_office_pages_key,priority:1"`
	AreaServedToken  string `gorm:"size:100;not null;uniqueIndex:idx_office_pages_key,priority:2"`
	ServiceToken     string `gorm:"size:100;not null;uniqueIndex:idx_office_pages_key,priority:3"`
	MetaTitle        string `gorm:"size:200;not null"`
	MetaDescription  string `gorm:"type:text;not null"`
	PageTitle        string `gorm:"size:200;not null"`
	PageContent      string `gorm:"type:text;not null"`
}

// TableName defines the table name for the OfficePage model.
func (OfficePage) TableName() string {
	return "office_pages"
}

// FrandevPage represents one franchise development page. It carries its own
// (state_token, city_token, page_token) business key and is populated only by
// the importer's secondary path.
type FrandevPage struct {
	gorm.Model
	StateToken      string `gorm:"size:100;not null;uniqueIndex:idx_frandev_pages_key,priority:1"`
	CityToken       string `gorm:"size:100;not null;uniqueIndex:idx_frandev_pages_key,priority:2"`
	PageToken       string `gorm:"size:100;not null;uniqueIndex:idx_frandev_pages_key,priority:3"`
	MetaTitle       string `gorm:"size:200"`
	MetaDescription string `gorm:"type:text"`
	PageTitle       string `gorm:"size:200"`
	PageContent     string `gorm:"type:text"`
	LinkLabel       string `gorm:"size:200"`
}

// TableName defines the table name for the FrandevPage model.
func (FrandevPage) TableName() string {
	return "frandev_pages"
}

// PageSummary is the listing projection of an office page: the business key
// plus the page title, with the content body omitted.
type PageSummary struct {
	ID               uint   `json:"id"`
	StateOfficeToken string `json:"state_office_token"`
	AreaServedToken  string `json:"area_served_token"`
	ServiceToken     string `json:"service_token"`
	PageTitle        string `json:"page_title"`
}

// PageKey is one (state office, area, service) triple, used by the sitemap
// endpoints.
type PageKey struct {
	StateOfficeToken string `json:"state_office_token"`
	AreaServedToken  string `json:"area_served_token"`
	ServiceToken     string `json:"service_token"`
}
