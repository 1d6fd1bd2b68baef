package models

// FlaggedItem marks an item as under review. The item id is the canonical
// item-reference string (Q:<id>, A:<id>, FB:<qid>:<idx>, FB:A:<aid>:<idx>).
// Its presence alone means "flagged"; the notes live in FlagNote rows.
type FlaggedItem struct {
	ItemID string `gorm:"primaryKey;size:100" json:"item_id"`
}

// FlagNote is one entry in the append-only note history of a flagged item.
type FlagNote struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	ItemID string `gorm:"index;size:100;not null" json:"item_id"`
	Note   string `gorm:"type:text;not null" json:"note"`
	Author string `gorm:"size:255" json:"author"`
}
