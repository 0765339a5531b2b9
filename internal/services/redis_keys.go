package services

import "fmt"

const (
	KeyAccessToken  = "access_token:%s"
	KeyRefreshToken = "refresh_token:%s"
)

func AccessTokenKey(userID string) string {
	return fmt.Sprintf(KeyAccessToken, userID)
}

func RefreshTokenKey(userID string) string {
	return fmt.Sprintf(KeyRefreshToken, userID)
}
