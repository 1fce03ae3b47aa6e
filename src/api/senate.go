package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/etbot-dev/etbot/src/logging"
	"github.com/etbot-dev/etbot/src/senate"
)

// SenateService is the part of the senate controller the API exposes.
type SenateService interface {
	CurrentIndex() int
	SetIndex(ctx context.Context, n int) error
	Lookup(ctx context.Context, number int) (*senate.Bill, error)
}

type Senate struct {
	svc       SenateService
	sanitizer *bluemonday.Policy
}

func NewSenate(svc SenateService) Senate {
	return Senate{svc: svc, sanitizer: bluemonday.StrictPolicy()}
}

type billResponse struct {
	Index      int    `json:"index"`
	Kind       string `json:"kind"`
	Referenced int    `json:"referenced,omitempty"`
	Options    int    `json:"options,omitempty"`
	Author     string `json:"author"`
	Body       string `json:"body"`
	Status     string `json:"status"`
	Votes      string `json:"votes"`
	ChannelID  string `json:"channelId"`
	MessageID  string `json:"messageId"`
}

func (s Senate) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"index": s.svc.CurrentIndex()})
}

func (s Senate) SetIndex(c *gin.Context) {
	var req struct {
		Index *int `json:"index" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if err := s.svc.SetIndex(c.Request.Context(), *req.Index); err != nil {
		s.fail(c, err)
		return
	}
	logging.Action("api", c.GetString("sub"), "set bill index to %d", *req.Index)
	c.JSON(http.StatusOK, gin.H{"index": s.svc.CurrentIndex()})
}

func (s Senate) Bill(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bill number must be an integer"})
		return
	}
	bill, err := s.svc.Lookup(c.Request.Context(), number)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, billResponse{
		Index:      bill.Index,
		Kind:       bill.Kind().String(),
		Referenced: bill.Referenced,
		Options:    bill.Options,
		Author:     bill.Author,
		Body:       s.sanitizer.Sanitize(bill.Body),
		Status:     bill.Status.String(),
		Votes:      bill.Votes,
		ChannelID:  bill.Message.ChannelID,
		MessageID:  bill.Message.ID,
	})
}

func (s Senate) fail(c *gin.Context, err error) {
	var invalid *senate.ValidationError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"err": invalid.Reason})
	case errors.Is(err, senate.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"err": "bill not found"})
	default:
		log.Printf("api: senate request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "internal error"})
	}
}
