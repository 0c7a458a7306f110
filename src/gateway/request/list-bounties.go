package request

// Query parameters of the bounty listing
type ListBounties struct {
	Status  []string `form:"status"`
	Address string   `form:"address"`
	Limit   int      `form:"limit"`
	Offset  int      `form:"offset"`
}
