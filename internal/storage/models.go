package storage

type Sale struct {
	Position            int64
	ID                  string
	SaleDate            string
	GrossCashSalesCents int64
	CashCollectedCents  int64
	CashHolder          string
	Notes               string
	CreatedAt           string
}

type Transaction struct {
	Position      int64
	ID            string
	TxDate        string
	Kind          string
	Category      string
	AmountCents   int64
	Description   string
	PaymentMethod string
	SpentBy       string
	PayeeName     string
	Purpose       string
	Notes         string
	CreatedAt     string
}

type MonthSyncLog struct {
	Month     string
	Status    string
	LastError string
	Attempts  int64
	UpdatedAt string
}
