package request

type CreateBounty struct {
	VerifierAddress string   `json:"verifier_address" binding:"required"`
	Amount          uint64   `json:"amount" binding:"required"`
	Deadline        int64    `json:"deadline" binding:"required"`
	Title           string   `json:"title"`
	Description     string   `json:"description" binding:"required"`
	Tags            []string `json:"tags"`
}
