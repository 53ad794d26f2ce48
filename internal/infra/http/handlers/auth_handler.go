package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/xavierca1/ligue-leads/internal/usecase"
)

type AuthHandler struct {
	RegisterUC *usecase.RegisterUserUseCase
	LoginUC    *usecase.LoginUserUseCase
}

func NewAuthHandler(registerUC *usecase.RegisterUserUseCase, loginUC *usecase.LoginUserUseCase) *AuthHandler {
	return &AuthHandler{RegisterUC: registerUC, LoginUC: loginUC}
}

func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var input usecase.RegisterUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	output, err := h.RegisterUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	log.Printf("Usuário criado: %s", output.Email)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(output)
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var input usecase.LoginUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	output, err := h.LoginUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(output)
}
