package deck

import "testing"

func TestParseCards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "royal flush",
			input: "AsKsQsJsTs",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Spades, Rank: King},
				{Suit: Spades, Rank: Queen},
				{Suit: Spades, Rank: Jack},
				{Suit: Spades, Rank: Ten},
			},
		},
		{
			name:  "mixed suits",
			input: "AhKdQcJs9s",
			expected: []Card{
				{Suit: Hearts, Rank: Ace},
				{Suit: Diamonds, Rank: King},
				{Suit: Clubs, Rank: Queen},
				{Suit: Spades, Rank: Jack},
				{Suit: Spades, Rank: Nine},
			},
		},
		{
			name:  "case insensitive",
			input: "asKHqDjc",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: King},
				{Suit: Diamonds, Rank: Queen},
				{Suit: Clubs, Rank: Jack},
			},
		},
		{
			name:    "invalid rank",
			input:   "XsKs",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "AxKs",
			wantErr: true,
		},
		{
			name:    "odd length",
			input:   "AsK",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cards, err := ParseCards(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(cards) != len(tt.expected) {
				t.Fatalf("expected %d cards, got %d", len(tt.expected), len(cards))
			}
			for i, c := range cards {
				if c != tt.expected[i] {
					t.Errorf("card %d: expected %v, got %v", i, tt.expected[i], c)
				}
			}
		})
	}
}

func TestCardString(t *testing.T) {
	t.Parallel()

	c := NewCard(Spades, Ace)
	if c.String() != "A♠" {
		t.Errorf("expected A♠, got %s", c.String())
	}

	c.FaceDown = true
	if c.String() != "??" {
		t.Errorf("face-down card should render hidden, got %s", c.String())
	}
}

func TestCardSameIgnoresVisibility(t *testing.T) {
	t.Parallel()

	up := NewCard(Hearts, King)
	down := up
	down.FaceDown = true

	if !up.Same(down) {
		t.Error("visibility must not change card identity")
	}
	if up.Same(NewCard(Hearts, Queen)) {
		t.Error("different ranks are different cards")
	}
}
