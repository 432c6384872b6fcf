package models

// FileType is the closed set of deliverable kinds a product can carry.
type FileType string

const (
	FileTypePDF    FileType = "PDF"
	FileTypeMIDI   FileType = "MIDI"
	FileTypeBundle FileType = "BUNDLE"
)

// HasDocument reports whether the type carries a printable score that must
// be watermarked before delivery.
func (t FileType) HasDocument() bool {
	return t == FileTypePDF || t == FileTypeBundle
}

type Product struct {
	ID              string   `gorm:"primaryKey"           json:"id"`
	Title           string   `gorm:"not null"             json:"title"`
	Description     string   `gorm:"not null"             json:"description"`
	Price           float64  `gorm:"not null"             json:"price"`
	Type            FileType `gorm:"not null"             json:"type"`
	CoverImage      string   `json:"cover_image"`
	PreviewAudioURL string   `json:"preview_audio_url,omitempty"`
	SourceFileURL   string   `json:"source_file_url"`
	Rating          float64  `json:"rating"`
	ReviewsCount    int      `json:"reviews_count"`
	// Position preserves the visible catalog ordering across restarts.
	Position int `gorm:"index" json:"-"`
}

type Account struct {
	ID            string  `gorm:"primaryKey"           json:"id"`
	Name          string  `gorm:"not null"             json:"name"`
	Email         string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string  `gorm:"not null"             json:"-"`
	JoinDate      string  `gorm:"not null"             json:"join_date"`
	TotalSpent    float64 `json:"total_spent"`
	PurchaseCount int     `json:"purchase_count"`
	Position      int     `gorm:"index" json:"-"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	AccountID string `gorm:"index;not null"  json:"account_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

// Order is the persisted half of a PurchaseRecord. Items are stored as
// value snapshots so later catalog edits cannot alter a past order.
type Order struct {
	ID        string  `gorm:"primaryKey" json:"order_id"`
	Email     string  `gorm:"not null"   json:"email"`
	AccountID string  `gorm:"index"      json:"account_id,omitempty"`
	Total     float64 `gorm:"not null"   json:"total"`
	CreatedAt int64   `gorm:"not null"   json:"timestamp"`
}

type OrderItem struct {
	ID            uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       string   `gorm:"index;not null"           json:"order_id"`
	ProductID     string   `gorm:"not null"                 json:"product_id"`
	Title         string   `json:"title"`
	Price         float64  `json:"price"`
	Type          FileType `json:"type"`
	CoverImage    string   `json:"cover_image"`
	SourceFileURL string   `json:"source_file_url"`
}

// PurchaseRecord is the in-memory receipt handed to the download-preparation
// workflow right after a successful checkout.
type PurchaseRecord struct {
	OrderID   string      `json:"order_id"`
	Email     string      `json:"email"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Timestamp int64       `json:"timestamp"`
}
