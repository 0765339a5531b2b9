package models

type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId,omitempty"`
}

type Progress struct {
	Level      int64 `json:"level"`
	Experience int64 `json:"experience"`
	RequiredXP int64 `json:"requiredXp"`
}
