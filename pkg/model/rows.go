package model

// RowKind tells renderers how a row is styled.
type RowKind string

const (
	RowHeading      RowKind = "heading"
	RowAccent       RowKind = "accent"
	RowOrganization RowKind = "organization"
	RowContact      RowKind = "contact"
)

// Icon identifies the symbol printed in front of a contact row. Export markup
// maps it to a glyph, the preview maps it to an SVG icon.
type Icon string

const (
	IconNone   Icon = ""
	IconMail   Icon = "mail"
	IconPhone  Icon = "phone"
	IconMobile Icon = "mobile"
	IconGlobe  Icon = "globe"
	IconPin    Icon = "map-pin"
)

// Row is one line of a rendered signature.
type Row struct {
	// Field is empty for the organization row.
	Field Field
	Kind  RowKind
	Icon  Icon
	Text  string
	// Href is set for rows rendered as links.
	Href string
}

// IsLink reports whether the row carries a link target.
func (r Row) IsLink() bool {
	return r.Href != ""
}

// Rows flattens d into display order. Link targets are built verbatim from the
// field values ("mailto:" + email, "http://" + website).
func Rows(d SignatureData) []Row {
	return []Row{
		{Field: FieldName, Kind: RowHeading, Text: d.Name},
		{Field: FieldTitle, Kind: RowAccent, Text: d.Title},
		{Kind: RowOrganization, Text: Organization},
		{Field: FieldEmail, Kind: RowContact, Icon: IconMail, Text: d.Email, Href: MailtoHref(d.Email)},
		{Field: FieldPhone, Kind: RowContact, Icon: IconPhone, Text: d.Phone},
		{Field: FieldMobile, Kind: RowContact, Icon: IconMobile, Text: d.Mobile},
		{Field: FieldWebsite, Kind: RowContact, Icon: IconGlobe, Text: d.Website, Href: WebsiteHref(d.Website)},
		{Field: FieldAddress, Kind: RowContact, Icon: IconPin, Text: d.Address},
	}
}

// MailtoHref builds the email link target.
func MailtoHref(email string) string {
	return "mailto:" + email
}

// WebsiteHref builds the website link target. The scheme is always http, as
// users type bare host names.
func WebsiteHref(website string) string {
	return "http://" + website
}
