package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostAndCommentFlow(t *testing.T) {
	app, s, db := newTestServer(t)
	_, token := createAccount(t, s, db, "flowfiona01", "Password123!")
	liker, _ := createAccount(t, s, db, "flowfelix01", "Password123!")

	// Create a post as the authenticated user.
	resp, post := doJSON(t, app, http.MethodPost, "/api/posts", map[string]any{
		"content": "first post",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	postID := int(post["id"].(float64))

	// Like it by username through the update endpoint.
	resp, updated := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/posts/%d", postID), map[string]any{
		"users_that_liked_to_add": []string{liker.Username},
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, updated["users_that_liked"], 1)

	// Comment and reply.
	resp, comment := doJSON(t, app, http.MethodPost, "/api/comments", map[string]any{
		"content": "nice post",
		"post_id": postID,
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	commentID := int(comment["id"].(float64))

	resp, reply := doJSON(t, app, http.MethodPost, "/api/comments", map[string]any{
		"content":           "replying",
		"post_id":           postID,
		"parent_comment_id": commentID,
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, commentID, reply["parent_comment_id"])

	// Soft delete keeps the comment retrievable with its flag set.
	resp, deleted := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/comments/%d/delete", commentID), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, deleted["is_deleted"])

	resp, fetched := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/comments/%d", commentID), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, fetched["is_deleted"])
	assert.Len(t, fetched["replies"], 1)

	// Comment content bounds are enforced before the store.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/comments", map[string]any{
		"content": "",
		"post_id": postID,
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatAndMessageFlow(t *testing.T) {
	app, s, db := newTestServer(t)
	alice, token := createAccount(t, s, db, "chatalice001", "Password123!")
	bob, _ := createAccount(t, s, db, "chatbobby001", "Password123!")
	_, outsiderToken := createAccount(t, s, db, "chatoscar001", "Password123!")

	t.Run("MemberRulesCheckedBeforeStore", func(t *testing.T) {
		// Duplicate member ids.
		resp, _ := doJSON(t, app, http.MethodPost, "/api/chats", map[string]any{
			"users": []uint{alice.ID, alice.ID},
		}, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		// Below the two-member minimum.
		resp, _ = doJSON(t, app, http.MethodPost, "/api/chats", map[string]any{
			"users": []uint{alice.ID},
		}, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	var chatID int
	t.Run("CreateAndDuplicate", func(t *testing.T) {
		resp, chat := doJSON(t, app, http.MethodPost, "/api/chats", map[string]any{
			"name":  "pair talk",
			"users": []uint{alice.ID, bob.ID},
		}, token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		chatID = int(chat["id"].(float64))

		// The same member set again is a conflict regardless of order.
		resp, _ = doJSON(t, app, http.MethodPost, "/api/chats", map[string]any{
			"users": []uint{bob.ID, alice.ID},
		}, token)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("OnlyMembersCanSend", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/messages", map[string]any{
			"content": "let me in",
			"chat_id": chatID,
		}, outsiderToken)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, msg := doJSON(t, app, http.MethodPost, "/api/messages", map[string]any{
			"content": "hello bob",
			"chat_id": chatID,
		}, token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.EqualValues(t, chatID, msg["chat_id"])
	})

	t.Run("ChatExpandsMessagesWithAuthors", func(t *testing.T) {
		resp, chat := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/chats/%d", chatID), nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		messages, ok := chat["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 1)
		first := messages[0].(map[string]any)
		author := first["author"].(map[string]any)
		assert.Equal(t, alice.Username, author["username"])
	})

	t.Run("InvalidIDIsRejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/chats/notanumber", nil, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestFollowEndpoint(t *testing.T) {
	app, s, db := newTestServer(t)
	follower, token := createAccount(t, s, db, "followfern01", "Password123!")
	followee, _ := createAccount(t, s, db, "followgreg01", "Password123!")

	t.Run("MissingIsFollowRejected", func(t *testing.T) {
		// Omitting the direction must not fall through to an unfollow.
		resp, body := doJSON(t, app, http.MethodPut,
			fmt.Sprintf("/api/users/%s/follow", follower.Username), map[string]any{
				"username_to_follow": followee.Username,
			}, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "is_follow is required", body["error"])
	})

	t.Run("SelfFollowRejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut,
			fmt.Sprintf("/api/users/%s/follow", follower.Username), map[string]any{
				"username_to_follow": follower.Username,
				"is_follow":          true,
			}, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("FollowAndUnfollow", func(t *testing.T) {
		resp, updated := doJSON(t, app, http.MethodPut,
			fmt.Sprintf("/api/users/%s/follow", follower.Username), map[string]any{
				"username_to_follow": followee.Username,
				"is_follow":          true,
			}, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, updated["followed_by"], 1)

		resp, updated = doJSON(t, app, http.MethodPut,
			fmt.Sprintf("/api/users/%s/follow", follower.Username), map[string]any{
				"username_to_follow": followee.Username,
				"is_follow":          false,
			}, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, updated["followed_by"], 0)
	})

	t.Run("UnknownTargetRejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut,
			fmt.Sprintf("/api/users/%s/follow", follower.Username), map[string]any{
				"username_to_follow": "nosuchperson",
				"is_follow":          true,
			}, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
