package repository

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Items   ItemRepository
	Stock   ItemStockRepository
	Orders  PurchaseOrderRepository
	Sales   SaleRepository
	Returns SaleReturnRepository
	Ledger  StockTransactionRepository
}
