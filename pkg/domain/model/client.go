package model

import "time"

// Client is a customer of the firm. IDPrefix is the firm's external
// numbering for the client and is unique.
type Client struct {
	ID        int64
	Name      string
	UserIDs   []string
	IDPrefix  int64
	CreatedAt time.Time
}
