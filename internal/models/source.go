package models

// Source names one of the four independently refreshed per-room data
// sources. Values match the backing table names and the change
// notification subjects derived from them.
type Source string

const (
	SourceState   Source = "draft_state"
	SourceCoaches Source = "coaches"
	SourcePlayers Source = "players"
	SourceOrder   Source = "draft_order"
)

// Sources lists all data sources a room is synced from.
var Sources = []Source{SourceState, SourceCoaches, SourcePlayers, SourceOrder}
