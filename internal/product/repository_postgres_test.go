package product

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPostgresCreate_DuplicateSlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("INSERT INTO products").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "products_slug_key"})

	_, err = repo.Create(Product{Name: "KVA-5 Generator", Slug: "kva-5-generator", SKU: "GEN-0001"})
	if !errors.Is(err, ErrSlugExists) {
		t.Fatalf("err = %v, want ErrSlugExists", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresCreate_DuplicateSKU(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("INSERT INTO products").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"})

	_, err = repo.Create(Product{Name: "Spark Plug", Slug: "spark-plug", SKU: "PRT-0002"})
	if !errors.Is(err, ErrSKUExists) {
		t.Fatalf("err = %v, want ErrSKUExists", err)
	}
}

func TestPostgresUpdate_DuplicateSlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE products").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "products_slug_key"})

	_, err = repo.Update(7, Product{Name: "KVA-5 Generator", Slug: "kva-5-generator", SKU: "GEN-0001"})
	if !errors.Is(err, ErrSlugExists) {
		t.Fatalf("err = %v, want ErrSlugExists", err)
	}
}

func TestPostgresCreate_OtherErrorsPassThrough(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	boom := errors.New("connection reset")
	mock.ExpectQuery("INSERT INTO products").WillReturnError(boom)

	_, err = repo.Create(Product{Name: "Air Filter", Slug: "air-filter", SKU: "PRT-0003"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the driver error unchanged", err)
	}
}
