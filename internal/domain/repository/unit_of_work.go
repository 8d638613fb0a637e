package repository

// InventoryTx agrupa los repositorios atados a una misma transacción de inventario.
type InventoryTx struct {
	Warehouses WarehouseRepository
	Lines      InventoryLineRepository
	History    StockHistoryRepository
	Transfers  TransferRepository
	Returns    ProviderReturnRepository
}

// CashTx agrupa los repositorios atados a una misma transacción de caja.
type CashTx struct {
	Registers    CashRegisterRepository
	Transactions CashTransactionRepository
}
