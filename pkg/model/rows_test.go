package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRows_FollowDisplayOrder(t *testing.T) {
	rows := Rows(Default())

	got := make([]string, 0, len(rows))
	for _, row := range rows {
		got = append(got, string(row.Kind)+":"+string(row.Field))
	}

	want := []string{
		"heading:name",
		"accent:title",
		"organization:",
		"contact:email",
		"contact:phone",
		"contact:mobile",
		"contact:website",
		"contact:address",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("row order mismatch (-want +got):\n%s", diff)
	}
}

func TestRows_LinkTargetsAreVerbatim(t *testing.T) {
	data := Default()
	data.Email = " odd@@value "
	data.Website = "https://already-schemed.example"

	var mailto, website string
	for _, row := range Rows(data) {
		switch row.Field {
		case FieldEmail:
			mailto = row.Href
		case FieldWebsite:
			website = row.Href
		}
	}

	if mailto != "mailto:"+data.Email {
		t.Fatalf("mailto mismatch: %q", mailto)
	}
	if website != "http://"+data.Website {
		t.Fatalf("website mismatch: %q", website)
	}
}

func TestRows_OrganizationIsFixed(t *testing.T) {
	data := SignatureData{}
	rows := Rows(data)
	if rows[2].Text != Organization {
		t.Fatalf("expected organization row, got %q", rows[2].Text)
	}
}

func TestParseField(t *testing.T) {
	got, err := ParseField("  Website ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != FieldWebsite {
		t.Fatalf("expected website, got %q", got)
	}

	if _, err := ParseField("fax"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestSignatureData_GetSetCoverEveryField(t *testing.T) {
	var data SignatureData
	for _, field := range Fields() {
		if err := data.Set(field, "v-"+string(field)); err != nil {
			t.Fatalf("set %s: %v", field, err)
		}
	}
	for _, field := range Fields() {
		got, err := data.Get(field)
		if err != nil {
			t.Fatalf("get %s: %v", field, err)
		}
		if got != "v-"+string(field) {
			t.Fatalf("field %s: got %q", field, got)
		}
	}
}
