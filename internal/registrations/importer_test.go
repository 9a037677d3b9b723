package registrations

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/mijnfegon/mijnfegon-backend/pkg/config"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
	pkgerrors "github.com/mijnfegon/mijnfegon-backend/pkg/errors"
)

const importCSV = `installer_email,installer_name,customer_name,customer_address,product_brand,product_model,product_serial_number,product_installation_date
a@b.nl,Jan,Klant A,Straat 1,Fegon,CombiCompact,TK123456,2021-02-15
c@d.nl,Piet,Klant B,Straat 2,Remeha,Talent,123456789,
,Kees,Klant C,Straat 3,Fegon,CombiCompact,TA123456,2020-05-01
`

func newTestImporter(t *testing.T, repo *fakeRepo, emitter *fakeOutbox, audit *fakeAudit) *Importer {
	t.Helper()
	imp, err := NewImporter(fakeTransactor{}, repo, emitter, audit, nil, config.ImportConfig{BatchSize: 2}, testLogger())
	if err != nil {
		t.Fatalf("NewImporter error: %v", err)
	}
	return imp
}

func TestParseCSV(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader(importCSV))
	if err != nil {
		t.Fatalf("ParseCSV error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	first := rows[0]
	if first.InstallerEmail != "a@b.nl" || first.ProductSerialNumber != "TK123456" {
		t.Errorf("unexpected first row: %+v", first)
	}
	if first.ProductInstallationDate == nil {
		t.Error("installation date should be parsed")
	}
	if first.Source != enums.RegistrationSourceImport {
		t.Errorf("source = %q, want import", first.Source)
	}
	if rows[1].ProductInstallationDate != nil {
		t.Error("empty installation date must stay nil")
	}
}

func TestParseCSV_MissingColumn(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("installer_email,installer_name\na@b.nl,Jan\n"))
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want VALIDATION", err)
	}
}

func TestImporter_AllSettled(t *testing.T) {
	repo := newFakeRepo()
	emitter := &fakeOutbox{}
	audit := &fakeAudit{}
	imp := newTestImporter(t, repo, emitter, audit)

	rows, err := ParseCSV(strings.NewReader(importCSV))
	if err != nil {
		t.Fatalf("ParseCSV error: %v", err)
	}

	actor := AdminActor{UID: uuid.New(), Email: "admin@mijnfegon.nl"}
	summary, aggErr := imp.Import(context.Background(), rows, actor)

	// Row 3 has no installer email and must fail without touching its siblings.
	if summary.Imported != 2 {
		t.Errorf("imported = %d, want 2", summary.Imported)
	}
	if summary.Failed != 1 {
		t.Errorf("failed = %d, want 1", summary.Failed)
	}
	if aggErr == nil {
		t.Fatal("expected an aggregate error for the failed row")
	}
	if summary.Results[2].Error == "" {
		t.Error("failed row must carry its error")
	}
	if summary.Results[0].RegistrationID == nil || summary.Results[1].RegistrationID == nil {
		t.Error("successful rows must carry their registration ids")
	}

	// Imported rows are unlinked.
	for id, reg := range repo.regs {
		if reg.InstallerUID != nil {
			t.Errorf("registration %s must be unlinked after import", id)
		}
		if reg.Source != enums.RegistrationSourceImport {
			t.Errorf("registration %s source = %q, want import", id, reg.Source)
		}
	}

	if got := len(emitter.byType(enums.EventRegistrationImported)); got != 2 {
		t.Errorf("imported events = %d, want 2", got)
	}
	if audit.count() != 1 {
		t.Errorf("audit records = %d, want 1", audit.count())
	}
}

func TestImporter_EmptyInput(t *testing.T) {
	imp := newTestImporter(t, newFakeRepo(), &fakeOutbox{}, &fakeAudit{})

	summary, err := imp.Import(context.Background(), nil, AdminActor{UID: uuid.New()})
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if summary.Total != 0 || summary.Imported != 0 || summary.Failed != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}
