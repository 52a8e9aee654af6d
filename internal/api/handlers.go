package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/settler/internal/models"
	"github.com/mmynk/settler/internal/money"
	"github.com/mmynk/settler/internal/service"
)

// groupResponse is the JSON shape of a group.
type groupResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Creator   string   `json:"creator"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"createdAt"`
}

func toGroupResponse(g *models.Group) groupResponse {
	members := make([]string, len(g.Members))
	for i, m := range g.Members {
		members[i] = m.String()
	}
	return groupResponse{
		ID:        g.ID,
		Name:      g.Name,
		Creator:   g.Creator.String(),
		Members:   members,
		CreatedAt: g.CreatedAt,
	}
}

// shareBody is one share in split requests and responses.
// Amounts are integer minor units everywhere on the wire.
type shareBody struct {
	Wallet string      `json:"wallet"`
	Amount money.Money `json:"amount"`
}

// splitResponse is the JSON shape of a split.
type splitResponse struct {
	ID          string      `json:"id"`
	GroupID     string      `json:"groupId"`
	Description string      `json:"description"`
	Payer       string      `json:"payer"`
	Total       money.Money `json:"total"`
	Shares      []shareBody `json:"shares"`
	CreatedAt   int64       `json:"createdAt"`
}

func toSplitResponse(sp *models.Split) splitResponse {
	shares := make([]shareBody, len(sp.Shares))
	for i, sh := range sp.Shares {
		shares[i] = shareBody{Wallet: sh.Owner.String(), Amount: sh.Amount}
	}
	return splitResponse{
		ID:          sp.ID,
		GroupID:     sp.GroupID,
		Description: sp.Description,
		Payer:       sp.Payer.String(),
		Total:       sp.Total,
		Shares:      shares,
		CreatedAt:   sp.CreatedAt,
	}
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Wallet string `json:"wallet"`
	}
	if err := decode(r, &body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	wallet := models.NormalizeWallet(body.Wallet)
	if wallet == "" {
		writeJSONError(w, http.StatusBadRequest, "wallet required")
		return
	}
	token, err := s.jwt.Generate(wallet)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "wallet": wallet.String()})
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name    string   `json:"name"`
		Members []string `json:"members"`
	}
	if err := decode(r, &body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	group, err := s.groups.CreateGroup(r.Context(), body.Name, WalletFrom(r.Context()).String(), body.Members)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

// requireMember loads the group and checks the authenticated wallet belongs
// to it. Writes the error response and returns nil when the check fails.
func (s *Server) requireMember(w http.ResponseWriter, r *http.Request, groupID string) *models.Group {
	group, err := s.groups.GetGroup(r.Context(), groupID)
	if err != nil {
		writeError(w, err)
		return nil
	}
	if !group.HasMember(WalletFrom(r.Context())) {
		writeJSONError(w, http.StatusForbidden, "you must be a member of this group")
		return nil
	}
	return group
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group := s.requireMember(w, r, chi.URLParam(r, "groupID"))
	if group == nil {
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (s *Server) handleAddMembers(w http.ResponseWriter, r *http.Request) {
	group := s.requireMember(w, r, chi.URLParam(r, "groupID"))
	if group == nil {
		return
	}
	var body struct {
		Wallets []string `json:"wallets"`
	}
	if err := decode(r, &body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := s.groups.AddMembers(r.Context(), group.ID, body.Wallets)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(updated))
}

func (s *Server) handleListMyGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.ListGroupsForUser(r.Context(), WalletFrom(r.Context()).String())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]groupResponse, len(groups))
	for i, g := range groups {
		out[i] = toGroupResponse(g)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSplit(w http.ResponseWriter, r *http.Request) {
	group := s.requireMember(w, r, chi.URLParam(r, "groupID"))
	if group == nil {
		return
	}
	var body struct {
		Description string      `json:"description"`
		Payer       string      `json:"payer"`
		Total       money.Money `json:"total"`
		Shares      []shareBody `json:"shares"`
	}
	if err := decode(r, &body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in := service.CreateSplitInput{
		GroupID:     group.ID,
		Description: body.Description,
		Payer:       body.Payer,
		Total:       body.Total,
	}
	if in.Payer == "" {
		// Whoever records the expense fronted it unless stated otherwise.
		in.Payer = WalletFrom(r.Context()).String()
	}
	for _, sh := range body.Shares {
		in.Shares = append(in.Shares, service.ShareInput{Wallet: sh.Wallet, Amount: sh.Amount})
	}
	split, err := s.splits.CreateSplit(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSplitResponse(split))
}

func (s *Server) handleListSplits(w http.ResponseWriter, r *http.Request) {
	group := s.requireMember(w, r, chi.URLParam(r, "groupID"))
	if group == nil {
		return
	}
	splits, err := s.splits.ListGroupSplits(r.Context(), group.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]splitResponse, len(splits))
	for i, sp := range splits {
		out[i] = toSplitResponse(sp)
	}
	writeJSON(w, http.StatusOK, out)
}

// requireSplitAccess loads a split and checks the authenticated wallet is a
// member of its group.
func (s *Server) requireSplitAccess(w http.ResponseWriter, r *http.Request, splitID string) *models.Split {
	split, err := s.splits.GetSplit(r.Context(), splitID)
	if err != nil {
		writeError(w, err)
		return nil
	}
	if s.requireMember(w, r, split.GroupID) == nil {
		return nil
	}
	return split
}

func (s *Server) handleGetSplit(w http.ResponseWriter, r *http.Request) {
	split := s.requireSplitAccess(w, r, chi.URLParam(r, "splitID"))
	if split == nil {
		return
	}
	writeJSON(w, http.StatusOK, toSplitResponse(split))
}

func (s *Server) handleDeleteSplit(w http.ResponseWriter, r *http.Request) {
	split := s.requireSplitAccess(w, r, chi.URLParam(r, "splitID"))
	if split == nil {
		return
	}
	if err := s.splits.DeleteSplit(r.Context(), split.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": split.ID})
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	split := s.requireSplitAccess(w, r, chi.URLParam(r, "splitID"))
	if split == nil {
		return
	}
	var body struct {
		Amount money.Money `json:"amount"`
	}
	if err := decode(r, &body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payment, err := s.splits.RecordPayment(r.Context(), split.ID, WalletFrom(r.Context()).String(), body.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      payment.ID,
		"splitId": payment.SplitID,
		"payer":   payment.Payer.String(),
		"amount":  payment.Amount,
	})
}

func (s *Server) handleGroupSettlement(w http.ResponseWriter, r *http.Request) {
	group := s.requireMember(w, r, chi.URLParam(r, "groupID"))
	if group == nil {
		return
	}
	plan, err := s.settlements.GroupSettlement(r.Context(), group.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleUserSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.settlements.UserSummary(r.Context(), WalletFrom(r.Context()).String())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
