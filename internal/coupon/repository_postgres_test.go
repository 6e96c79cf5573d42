package coupon

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPostgresCreate_DuplicateCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("INSERT INTO coupons").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "coupons_code_key"})

	_, err = repo.Create(Coupon{Code: "SAVE20", DiscountType: DiscountPercentage, Value: 20})
	if !errors.Is(err, ErrCodeExists) {
		t.Fatalf("err = %v, want ErrCodeExists", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresUpdate_DuplicateCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE coupons").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "coupons_code_key"})

	_, err = repo.Update(3, Coupon{Code: "SAVE20", DiscountType: DiscountPercentage, Value: 20})
	if !errors.Is(err, ErrCodeExists) {
		t.Fatalf("err = %v, want ErrCodeExists", err)
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
	mock.ExpectQuery("INSERT INTO coupons").WillReturnError(boom)

	_, err = repo.Create(Coupon{Code: "FREESHIP", DiscountType: DiscountFreeShipping})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the driver error unchanged", err)
	}
}
