package types

type TradeSide string

type TradeStatus string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

const (
	TradeStatusCompleted TradeStatus = "completed"
	TradeStatusRejected  TradeStatus = "rejected"
)

// ContextPersonal is the context id of a user's standing portfolio.
// Competition entries use the competition's own id as the context.
const ContextPersonal = "personal"
