package order

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/voltdepot/genstore-backend/internal/product"
)

func sampleOrder() Order {
	return Order{
		OrderNumber:     "ORD-20260901-ABCD1234",
		UserID:          42,
		ShippingName:    "Asad Khan",
		ShippingPhone:   "0300-1234567",
		ShippingAddress: "12-B Canal Road",
		ShippingCity:    "Lahore",
		Items: []OrderItem{
			{ProductID: 1, ItemType: product.ItemTypeGenerator, Name: "KVA-5 Generator", SKU: "GEN-0001", Price: 20000, Quantity: 2, Total: 40000},
		},
		Subtotal:      40000,
		ShippingFee:   500,
		Total:         40500,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		PaymentMethod: MethodCOD,
	}
}

func TestCreate_CommitsWholeCheckout(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(9))
	mock.ExpectQuery("INSERT INTO order_items").
		WillReturnRows(sqlmock.NewRows([]string{"item_id"}).AddRow(1))
	mock.ExpectExec("UPDATE products").WithArgs(2, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE coupons").WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO coupon_redemptions").WithArgs(3, 42, 9).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM cart_items").WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	ord, err := repo.Create(sampleOrder(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if ord.ID != 9 {
		t.Errorf("order id = %d, want 9", ord.ID)
	}
	if ord.Items[0].ID != 1 {
		t.Errorf("item id = %d, want 1", ord.Items[0].ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreate_RollsBackOnStockGuard(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(9))
	mock.ExpectQuery("INSERT INTO order_items").
		WillReturnRows(sqlmock.NewRows([]string{"item_id"}).AddRow(1))
	// guard blocks the decrement: zero rows affected
	mock.ExpectExec("UPDATE products").WithArgs(2, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err = repo.Create(sampleOrder(), 0)
	if !errors.Is(err, product.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreate_SkipsCouponWritesWithoutCoupon(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(9))
	mock.ExpectQuery("INSERT INTO order_items").
		WillReturnRows(sqlmock.NewRows([]string{"item_id"}).AddRow(1))
	mock.ExpectExec("UPDATE products").WithArgs(2, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM cart_items").WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if _, err := repo.Create(sampleOrder(), 0); err != nil {
		t.Fatal(err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCancel_RestoresStockInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	ord := sampleOrder()
	ord.ID = 9
	ord.Status = StatusCancelled
	ord.PaymentStatus = PaymentRefunded

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE products").WithArgs(2, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := repo.Cancel(ord)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusCancelled || got.PaymentStatus != PaymentRefunded {
		t.Errorf("unexpected persisted state %s/%s", got.Status, got.PaymentStatus)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCancel_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	ord := sampleOrder()
	ord.ID = 404
	ord.Status = StatusCancelled

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if _, err := repo.Cancel(ord); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
