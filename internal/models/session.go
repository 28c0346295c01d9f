package models

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// JWT claims issued by the back-office auth service.
type Claims struct {
	UserID         int64  `json:"userId"`
	Username       string `json:"username"`
	Role           string `json:"role"`
	CashRegisterID int64  `json:"cashRegisterId"`
	jwt.RegisteredClaims
}

// Session identifies one cashier working one register. Token is forwarded to
// the back-office API on every call made on the cashier's behalf.
type Session struct {
	UserID         int64
	Username       string
	Role           string
	CashRegisterID int64
	Token          string
}

func (s Session) Key() string {
	return strconv.FormatInt(s.CashRegisterID, 10) + ":" + strconv.FormatInt(s.UserID, 10)
}
