package exportio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swpdata/sitecat/internal/ent/model"
	"github.com/swpdata/sitecat/internal/ent/sink"
	"github.com/swpdata/sitecat/pkg/config"
)

// pg is the secondary export path: the layer lands in one PostgreSQL table
// for downstream geodatabase tooling. The table is rebuilt from scratch on
// every run, like the rest of the catalog.
type pg struct {
	cfg config.Config
}

// NewPG returns the PostgreSQL export sink.
func NewPG(cfg config.Config) sink.Sink {
	return &pg{cfg: cfg}
}

func (p *pg) Name() string { return "postgres" }

func (p *pg) Export(l *model.Layer) error {
	db, err := p.conn()
	if err != nil {
		return err
	}
	defer db.Close()

	if err = p.recreateTable(db); err != nil {
		return err
	}

	var total int64
	for start := 0; start < len(l.Records); start += p.cfg.BatchSize {
		end := min(start+p.cfg.BatchSize, len(l.Records))
		saved, err := p.insertRecords(db, l.Records[start:end])
		if err != nil {
			slog.Error("Cannot save site records", "error", err)
			return err
		}
		total += saved
	}

	slog.Info("Uploaded monitoring_sites table",
		"records", humanize.Comma(total))
	return nil
}

func (p *pg) conn() (*pgxpool.Pool, error) {
	url := fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable",
		p.cfg.PgHost, p.cfg.PgUser, p.cfg.PgPass, p.cfg.PgDB)
	pgxCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		slog.Error("Cannot parse pgx config", "error", err)
		return nil, err
	}

	db, err := pgxpool.NewWithConfig(context.Background(), pgxCfg)
	if err != nil {
		slog.Error("Cannot connect to database", "error", err)
		return nil, err
	}
	return db, nil
}

func (p *pg) recreateTable(db *pgxpool.Pool) error {
	qs := []string{
		"DROP TABLE IF EXISTS monitoring_sites",
		`CREATE TABLE monitoring_sites (
  site_uid varchar(100) NOT NULL,
  site_name varchar(255),
  longitude double precision NOT NULL,
  latitude double precision NOT NULL,
  dataset_unique_identifier varchar(20) NOT NULL,
  source varchar(50) NOT NULL,
  organization varchar(255),
  organization_type varchar(100),
  water_body_type varchar(100),
  dataset_name varchar(255)
)`,
	}
	for _, q := range qs {
		if _, err := db.Exec(context.Background(), q); err != nil {
			slog.Error("Cannot recreate table", "error", err, "query", q)
			return err
		}
	}
	return nil
}

func (p *pg) insertRecords(db *pgxpool.Pool, recs []model.Record) (int64, error) {
	columns := []string{
		"site_uid", "site_name", "longitude", "latitude",
		"dataset_unique_identifier", "source", "organization",
		"organization_type", "water_body_type", "dataset_name",
	}
	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = []any{
			r.SiteUID, r.SiteName, r.Lon, r.Lat,
			r.DatasetID, r.Source, r.Organization,
			r.OrganizationType, r.WaterBodyType, r.DatasetName,
		}
	}
	n, err := db.CopyFrom(
		context.Background(),
		pgx.Identifier{"monitoring_sites"},
		columns,
		pgx.CopyFromRows(rows),
	)
	return n, err
}
