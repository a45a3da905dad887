package sdk

import (
	"context"
	"strconv"
)

// GetHistory returns one page of the conversation with peerId. Fetching
// history never marks anything read; use MarkRead for that.
func (c *Client) GetHistory(ctx context.Context, peerId int64, page, limit int) (*HistoryPage, error) {
	params := map[string]string{
		"peer_id": strconv.FormatInt(peerId, 10),
	}
	if page > 0 {
		params["page"] = strconv.Itoa(page)
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	var result HistoryPage
	if err := c.get(ctx, "/msg/history", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUnreadCounts returns per-sender unread counts, keyed by sender id
func (c *Client) GetUnreadCounts(ctx context.Context) (map[int64]int, error) {
	var raw map[string]int
	if err := c.get(ctx, "/msg/unread", nil, &raw); err != nil {
		return nil, err
	}

	counts := make(map[int64]int, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		counts[id] = v
	}
	return counts, nil
}

// MarkRead marks messages from senderId as read. A non-zero before
// bounds the update to messages created at or before that timestamp.
// Returns the number of messages marked.
func (c *Client) MarkRead(ctx context.Context, senderId, before int64) (int64, error) {
	body := &MarkAsReadPayload{SenderId: senderId, Before: before}

	var result map[string]int64
	if err := c.post(ctx, "/msg/read", body, &result); err != nil {
		return 0, err
	}
	return result["marked"], nil
}

// DeleteMessage deletes a message the caller authored
func (c *Client) DeleteMessage(ctx context.Context, messageId int64) error {
	return c.delete(ctx, "/msg/"+strconv.FormatInt(messageId, 10), nil)
}
