package crm

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashboard "github.com/goliatone/go-crm-dashboard/components/dashboard"
)

var referenceNow = time.Date(2020, time.March, 15, 9, 0, 0, 0, time.UTC)

func TestParseCell(t *testing.T) {
	assert.Equal(t, 12.5, ParseCell("12.5"))
	assert.Equal(t, 202003.0, ParseCell(" 202003 "))
	assert.Equal(t, time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC), ParseCell("2020-03-02"))
	assert.Equal(t, true, ParseCell("TRUE"))
	assert.Equal(t, false, ParseCell("false"))
	assert.Equal(t, "Closed Won", ParseCell("Closed Won"))
	assert.Equal(t, "", ParseCell("   "))
	assert.Equal(t, -0.5, ParseCell("-.5"))
	assert.Equal(t, 1200.0, ParseCell("1.2e3"))
}

func TestParseCellKeepsNonDecimalText(t *testing.T) {
	for _, raw := range []string{"NaN", "nan", "Inf", "-infinity", "0x1p4", "1e400", "1_000", "12 units"} {
		assert.Equal(t, raw, ParseCell(raw), raw)
	}
}

func TestOpen(t *testing.T) {
	provider, err := Open(Config{})
	require.NoError(t, err)
	assert.IsType(t, &MockProvider{}, provider)

	_, err = Open(Config{Source: "ftp"})
	assert.ErrorIs(t, err, ErrUnknownSource)

	_, err = Open(Config{Source: SourceCSV})
	assert.Error(t, err)
	_, err = Open(Config{Source: SourceHTTP})
	assert.Error(t, err)
	_, err = Open(Config{Source: SourceSQLite})
	assert.Error(t, err)
}

func TestMockProviderFeedsEveryPanel(t *testing.T) {
	provider := &MockProvider{Now: func() time.Time { return referenceNow }, Size: 28}
	datasets, err := dashboard.LoadDatasets(context.Background(), provider)
	require.NoError(t, err)

	finance, _ := datasets.Table(dashboard.DatasetFinance)
	current := dashboard.Filter(finance, func(r dashboard.Record) bool {
		return r.Float("Month") == float64(dashboard.MonthKey(referenceNow))
	})
	assert.Len(t, current, 8*3*2)
	assert.Equal(t, "2020Q1", current[0].String("Quarter"))

	opportunities, _ := datasets.Table(dashboard.DatasetOpportunities)
	require.Len(t, opportunities, 28)
	won := dashboard.Filter(opportunities, func(r dashboard.Record) bool { return r.Bool("IsWon") })
	assert.Len(t, won, 2)
	for _, rec := range won {
		assert.Equal(t, 100.0, rec.Float("Probability"))
	}

	service, err := dashboard.NewService(dashboard.Options{
		Datasets: datasets,
		Clock:    func() time.Time { return referenceNow },
	})
	require.NoError(t, err)
	for _, route := range service.Router().Routes() {
		page, err := service.Session().Navigate(context.Background(), route.Path)
		require.NoError(t, err, route.Path)
		for region, state := range page.Regions {
			assert.Empty(t, state.Error, "%s %s", route.Path, region)
		}
	}
}

func TestMockProviderHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&MockProvider{}).Leads(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCSVProvider(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	write("opportunities.csv", "Name,Amount,StageName,IsWon,CreatedDate\nAcme,1200,Closed Won,true,2020-01-10\nGlobex,400,Prospecting,false,2020-02-01\n")
	write("leads.csv", "Status,LeadSource,State,CreatedDate\n")
	write("cases.csv", "")
	write("finance.csv", "Quarter,Month,Account,Market Unit,Product,Amount,Forecast\n2020Q1,202003,Revenue,US,suite,1500,1400\n")

	provider, err := NewCSVProvider(dir)
	require.NoError(t, err)
	ctx := context.Background()

	opportunities, err := provider.Opportunities(ctx)
	require.NoError(t, err)
	require.Len(t, opportunities, 2)
	assert.Equal(t, 1200.0, opportunities[0]["Amount"])
	assert.Equal(t, true, opportunities[0]["IsWon"])
	created, ok := opportunities[1].Time("CreatedDate")
	require.True(t, ok)
	assert.Equal(t, time.February, created.Month())

	leads, err := provider.Leads(ctx)
	require.NoError(t, err)
	assert.Empty(t, leads)

	cases, err := provider.Cases(ctx)
	require.NoError(t, err)
	assert.Empty(t, cases)

	finance, err := provider.Finance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 202003.0, finance[0]["Month"])
	assert.Equal(t, "US", finance[0]["Market Unit"])

	require.NoError(t, os.Remove(filepath.Join(dir, "leads.csv")))
	_, err = provider.Leads(ctx)
	assert.ErrorContains(t, err, "leads.csv")
}

func TestNewCSVProviderValidatesDir(t *testing.T) {
	_, err := NewCSVProvider(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.csv")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	_, err = NewCSVProvider(file)
	assert.ErrorContains(t, err, "not a directory")
}

func TestReadCSVRejectsRaggedRows(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1\n"))
	assert.Error(t, err)
}

func TestSQLiteProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crm.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	for _, stmt := range []string{
		`CREATE TABLE opportunities (Name TEXT, Amount REAL, IsWon INTEGER, CreatedDate TEXT)`,
		`INSERT INTO opportunities VALUES ('Acme', 1200.0, 1, '2020-01-10'), ('Globex', 400, 0, '2020-02-01')`,
		`CREATE TABLE leads (Status TEXT, State TEXT)`,
		`CREATE TABLE cases (Priority TEXT)`,
		`INSERT INTO cases VALUES ('High')`,
		`CREATE TABLE finance ("Market Unit" TEXT, Month INTEGER, Amount REAL)`,
		`INSERT INTO finance VALUES ('US', 202003, 1500)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	require.NoError(t, db.Close())

	provider, err := OpenSQLite(path)
	require.NoError(t, err)
	defer provider.Close()
	ctx := context.Background()

	opportunities, err := provider.Opportunities(ctx)
	require.NoError(t, err)
	require.Len(t, opportunities, 2)
	assert.Equal(t, "Acme", opportunities[0]["Name"])
	assert.Equal(t, 1.0, opportunities[0].Float("IsWon"))
	assert.True(t, opportunities[0].Bool("IsWon"))
	_, ok := opportunities[0].Time("CreatedDate")
	assert.True(t, ok)

	leads, err := provider.Leads(ctx)
	require.NoError(t, err)
	assert.Empty(t, leads)

	finance, err := provider.Finance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 202003.0, finance[0]["Month"])
	assert.Equal(t, "US", finance[0]["Market Unit"])
}

func TestHTTPProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/opportunities":
			_, _ = w.Write([]byte(`[{"Name":"Acme","Amount":1200,"IsWon":true,"CreatedDate":"2020-01-10"}]`))
		case "/leads":
			_, _ = w.Write([]byte(`[]`))
		default:
			http.Error(w, "boom", http.StatusBadGateway)
		}
	}))
	defer server.Close()

	provider, err := NewHTTPProvider(HTTPConfig{BaseURL: server.URL + "/", APIKey: "secret"})
	require.NoError(t, err)
	ctx := context.Background()

	opportunities, err := provider.Opportunities(ctx)
	require.NoError(t, err)
	require.Len(t, opportunities, 1)
	assert.Equal(t, 1200.0, opportunities[0]["Amount"])
	assert.Equal(t, true, opportunities[0]["IsWon"])
	created, ok := opportunities[0].Time("CreatedDate")
	require.True(t, ok)
	assert.Equal(t, 2020, created.Year())

	leads, err := provider.Leads(ctx)
	require.NoError(t, err)
	assert.Empty(t, leads)

	_, err = provider.Cases(ctx)
	assert.ErrorContains(t, err, "remote error 502")

	anonymous, err := NewHTTPProvider(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)
	_, err = anonymous.Finance(ctx)
	assert.ErrorContains(t, err, "401")
}
