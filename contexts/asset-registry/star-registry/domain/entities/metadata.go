package entities

const (
	CollectionName   = "StarToken"
	CollectionSymbol = "STR"
)

// RegistryAccount holds tendered value for the duration of a purchase.
const RegistryAccount AccountID = "star-registry"
