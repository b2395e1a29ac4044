package httptransport

type MetadataResponse struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type CreateStarRequest struct {
	StarID int64  `json:"star_id"`
	Name   string `json:"name"`
}

type StarDTO struct {
	StarID    int64  `json:"star_id"`
	Name      string `json:"name"`
	Owner     string `json:"owner"`
	Status    string `json:"status"`
	Price     string `json:"price,omitempty"`
	Approved  string `json:"approved,omitempty"`
	UpdatedAt string `json:"updated_at"`
}

type StarResponse struct {
	Item StarDTO `json:"item"`
}

type LookupStarResponse struct {
	StarID int64  `json:"star_id"`
	Name   string `json:"name"`
}

type OwnerResponse struct {
	StarID int64  `json:"star_id"`
	Owner  string `json:"owner"`
}

type PutListingRequest struct {
	Price string `json:"price"`
}

type ListingResponse struct {
	StarID  int64  `json:"star_id"`
	ForSale bool   `json:"for_sale"`
	Price   string `json:"price"`
}

type ApproveRequest struct {
	Delegate string `json:"delegate"`
}

type ApprovalResponse struct {
	StarID   int64  `json:"star_id"`
	Approved string `json:"approved"`
}

type PurchaseRequest struct {
	TenderedValue string `json:"tendered_value"`
}

type SettlementDTO struct {
	Seller   string `json:"seller"`
	Buyer    string `json:"buyer"`
	Tendered string `json:"tendered"`
	Price    string `json:"price"`
	Change   string `json:"change"`
}

type PurchaseResponse struct {
	Item       StarDTO       `json:"item"`
	Settlement SettlementDTO `json:"settlement"`
	Replayed   bool          `json:"replayed,omitempty"`
}

type TransferRequest struct {
	To string `json:"to"`
}

type ExchangeRequest struct {
	StarIDA int64 `json:"star_id_a"`
	StarIDB int64 `json:"star_id_b"`
}

type ExchangeResponse struct {
	Items []StarDTO `json:"items"`
}

type StarCountResponse struct {
	Account string `json:"account_id"`
	Stars   int    `json:"stars"`
}

type AccountBalanceResponse struct {
	Account string `json:"account_id"`
	Balance string `json:"balance"`
}

type DepositRequest struct {
	Amount string `json:"amount"`
}

type DepositResponse struct {
	Account string `json:"account_id"`
	Amount  string `json:"amount"`
	Balance string `json:"balance"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
