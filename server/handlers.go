package server

import (
	"net/http"
	"strconv"

	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/toolchat/registry"
	"github.com/gin-gonic/gin"
)

// SendMessageRequest is the payload of POST /messages
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
}

// ClearMessagesResponse is the result of DELETE /messages
type ClearMessagesResponse struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deletedCount"`
}

// UpdateServerRequest is the payload of PATCH /mcp/servers/:server_id
type UpdateServerRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// UpdateToolRequest is the payload of PATCH /mcp/servers/:server_id/tools/:tool_id
type UpdateToolRequest struct {
	IsEnabled *bool `json:"is_enabled" validate:"required"`
}

func ownerOf(c *gin.Context) string {
	o, _ := chatmodel.GetOwner(c.Request.Context())
	return o
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		abort(c, http.StatusBadRequest, CodeBadRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := chatmodel.ParseID(c.Param(name))
	if err != nil || id == 0 {
		abort(c, http.StatusBadRequest, CodeBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) (int, bool) {
	s := c.Query(name)
	if s == "" {
		return 0, true
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		abort(c, http.StatusBadRequest, CodeBadRequest, "invalid "+name)
		return 0, false
	}
	return v, true
}

func (s *Server) sendMessage(c *gin.Context) {
	var req SendMessageRequest
	if !bind(c, &req) {
		return
	}

	res, err := s.conv.SendMessage(c.Request.Context(), ownerOf(c), req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, res)
}

func (s *Server) listMessages(c *gin.Context) {
	limit, valid := queryInt(c, "limit")
	if !valid {
		return
	}
	offset, valid := queryInt(c, "offset")
	if !valid {
		return
	}

	page, err := s.conv.ListMessages(c.Request.Context(), ownerOf(c), limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, page)
}

func (s *Server) clearMessages(c *gin.Context) {
	count, err := s.conv.ClearMessages(c.Request.Context(), ownerOf(c))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, &ClearMessagesResponse{
		Message:      "Chat history cleared",
		DeletedCount: count,
	})
}

func (s *Server) connectServer(c *gin.Context) {
	var req registry.ConnectRequest
	if !bind(c, &req) {
		return
	}

	res, err := s.registry.ConnectServer(c.Request.Context(), ownerOf(c), &req)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, &registry.ConnectResult{
		Server: redact(res.Server),
		Tools:  res.Tools,
	})
}

func (s *Server) listServers(c *gin.Context) {
	list, err := s.registry.ListServers(c.Request.Context(), ownerOf(c))
	if err != nil {
		fail(c, err)
		return
	}

	views := make([]*registry.ServerInfo, 0, len(list))
	for _, si := range list {
		views = append(views, &registry.ServerInfo{
			ToolServer: redact(si.ToolServer),
			ToolCount:  si.ToolCount,
		})
	}
	success(c, views)
}

func (s *Server) updateServer(c *gin.Context) {
	id, valid := paramID(c, "server_id")
	if !valid {
		return
	}
	var req UpdateServerRequest
	if !bind(c, &req) {
		return
	}

	if err := s.registry.SetServerActive(c.Request.Context(), ownerOf(c), id, *req.IsActive); err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"server_id": chatmodel.FormatID(id), "is_active": *req.IsActive})
}

func (s *Server) listServerTools(c *gin.Context) {
	id, valid := paramID(c, "server_id")
	if !valid {
		return
	}

	list, err := s.registry.ListServerTools(c.Request.Context(), ownerOf(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, list)
}

func (s *Server) updateTool(c *gin.Context) {
	serverID, valid := paramID(c, "server_id")
	if !valid {
		return
	}
	toolID, valid := paramID(c, "tool_id")
	if !valid {
		return
	}
	var req UpdateToolRequest
	if !bind(c, &req) {
		return
	}

	if err := s.registry.SetToolEnabled(c.Request.Context(), ownerOf(c), serverID, toolID, *req.IsEnabled); err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"tool_id": chatmodel.FormatID(toolID), "is_enabled": *req.IsEnabled})
}

// redact returns a copy of the server without its credentials
func redact(srv *chatmodel.ToolServer) *chatmodel.ToolServer {
	if srv == nil {
		return nil
	}
	cp := *srv
	cp.APIKey = ""
	return &cp
}
