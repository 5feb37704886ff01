package handler

import (
	"art-marketplace/internal/adapter/http/dto"
	"art-marketplace/internal/core/ports"
	"art-marketplace/pkg/apperror"
	"art-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler exposes the caller's wallet ledger.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// Create handles POST /api/v1/wallet.
func (h *WalletHandler) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	wallet, err := h.walletSvc.CreateWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, wallet)
}

// Get handles GET /api/v1/wallet.
func (h *WalletHandler) Get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	wallet, err := h.walletSvc.GetWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if wallet == nil {
		response.Error(c, apperror.ErrWalletNotFound())
		return
	}
	response.OK(c, wallet)
}

// Deposit handles POST /api/v1/wallet/deposit.
func (h *WalletHandler) Deposit(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.AmountRequest
	if !bindJSON(c, &req) {
		return
	}
	wallet, err := h.walletSvc.Deposit(c.Request.Context(), userID, req.Amount, req.Reference)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, wallet)
}

// Withdraw handles POST /api/v1/wallet/withdraw.
func (h *WalletHandler) Withdraw(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.AmountRequest
	if !bindJSON(c, &req) {
		return
	}
	done, err := h.walletSvc.Withdraw(c.Request.Context(), userID, req.Amount, req.Reference)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !done {
		response.Error(c, apperror.ErrInsufficientFunds())
		return
	}
	response.OK(c, dto.OperationResponse{Success: true, Message: "Withdrawal completed"})
}

// Transfer handles POST /api/v1/wallet/transfer.
func (h *WalletHandler) Transfer(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.TransferRequest
	if !bindJSON(c, &req) {
		return
	}
	done, err := h.walletSvc.Transfer(c.Request.Context(), userID, uuid.MustParse(req.ToUserID), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !done {
		response.Error(c, apperror.ErrInsufficientFunds())
		return
	}
	response.OK(c, dto.OperationResponse{Success: true, Message: "Transfer completed"})
}

// ListTransactions handles GET /api/v1/wallet/transactions.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	limit, offset, ok := pageParams(c)
	if !ok {
		return
	}
	entries, err := h.walletSvc.ListTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, entries, limit, offset, len(entries))
}

// GetTransaction handles GET /api/v1/wallet/transactions/:id. Entries on
// another user's wallet are reported as not found.
func (h *WalletHandler) GetTransaction(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.walletSvc.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if entry == nil {
		response.Error(c, apperror.ErrTransactionNotFound())
		return
	}

	wallet, err := h.walletSvc.GetWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if wallet == nil || wallet.ID != entry.WalletID {
		response.Error(c, apperror.ErrTransactionNotFound())
		return
	}
	response.OK(c, entry)
}
