package store

import (
	"time"

	"github.com/maestrodigital/maestro_shop/internal/hash"
	"github.com/maestrodigital/maestro_shop/internal/models"
)

// SeedProducts is the built-in default catalog used whenever storage is
// empty or unreadable.
func SeedProducts() []models.Product {
	return []models.Product{
		{
			ID:              "p1",
			Title:           "Nocturne in G Minor",
			Description:     "A melancholic and lyrical solo piano piece exploring dark harmonic colors.",
			Price:           15.00,
			Type:            models.FileTypeBundle,
			CoverImage:      "https://picsum.photos/seed/music1/600/800",
			PreviewAudioURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3",
			SourceFileURL:   "https://www.w3.org/WAI/ER/tests/xhtml/testfiles/resources/pdf/dummy.pdf",
			Rating:          4.8,
			ReviewsCount:    124,
		},
		{
			ID:            "p2",
			Title:         "Symphonic Sketches No. 4",
			Description:   "Full orchestral score and MIDI map for the fourth movement of the Sketches series.",
			Price:         45.00,
			Type:          models.FileTypePDF,
			CoverImage:    "https://picsum.photos/seed/music2/600/800",
			SourceFileURL: "https://www.w3.org/WAI/ER/tests/xhtml/testfiles/resources/pdf/dummy.pdf",
			Rating:        4.5,
			ReviewsCount:  42,
		},
		{
			ID:           "p3",
			Title:        "Cyberpunk Pulse (MIDI Pack)",
			Description:  "Electronic rhythmic patterns and synthesizer leads in MIDI format.",
			Price:        20.00,
			Type:         models.FileTypeMIDI,
			CoverImage:   "https://picsum.photos/seed/music3/600/800",
			Rating:       4.2,
			ReviewsCount: 89,
		},
		{
			ID:              "p4",
			Title:           "Waltz of the Willow",
			Description:     "Elegant chamber ensemble piece for strings and woodwinds.",
			Price:           25.00,
			Type:            models.FileTypeBundle,
			CoverImage:      "https://picsum.photos/seed/music4/600/800",
			PreviewAudioURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-2.mp3",
			SourceFileURL:   "https://www.w3.org/WAI/ER/tests/xhtml/testfiles/resources/pdf/dummy.pdf",
			Rating:          4.9,
			ReviewsCount:    56,
		},
	}
}

// SeedAccounts is the built-in customer roster. Passwords are hashed at seed
// time so nothing plain-text ever reaches storage.
func SeedAccounts() []models.Account {
	pw, err := hash.HashPassword("password123")
	if err != nil {
		pw = ""
	}
	return []models.Account{
		{
			ID:            "u1",
			Name:          "Johann Strauss",
			Email:         "johann@vienna.at",
			PasswordHash:  pw,
			JoinDate:      "2023-11-01",
			TotalSpent:    125.50,
			PurchaseCount: 4,
		},
		{
			ID:            "u2",
			Name:          "Clara Schumann",
			Email:         "clara@pianist.de",
			PasswordHash:  pw,
			JoinDate:      "2023-12-15",
			TotalSpent:    45.00,
			PurchaseCount: 1,
		},
	}
}

func today() string {
	return time.Now().Format("2006-01-02")
}
