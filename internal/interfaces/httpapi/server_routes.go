package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons/{seasonID}/rounds", handler.ListRoundsBySeason)
	mux.HandleFunc("GET /v1/rounds/{roundID}", handler.GetRound)
	mux.HandleFunc("GET /v1/rounds/{roundID}/fixtures", handler.ListFixturesByRound)
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}", handler.GetFixture)
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}/matchups", handler.GetMatchups)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/fixtures/{fixtureID}/lineups/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.GetLineup)))
	mux.Handle("PUT /v1/fixtures/{fixtureID}/lineup", RequireAuth(verifier, http.HandlerFunc(handler.SubmitLineup)))

	mux.Handle("POST /v1/fixtures/{fixtureID}/matchups", RequireAuth(verifier, http.HandlerFunc(handler.CreateMatchups)))
	mux.Handle("PATCH /v1/fixtures/{fixtureID}/matchups", RequireAuth(verifier, http.HandlerFunc(handler.EditMatchups)))
	mux.Handle("POST /v1/fixtures/{fixtureID}/matchups/swap", RequireAuth(verifier, http.HandlerFunc(handler.SwapMatchups)))
	mux.Handle("DELETE /v1/fixtures/{fixtureID}/matchups", RequireAuth(verifier, http.HandlerFunc(handler.ResetMatchups)))

	mux.Handle("POST /v1/fixtures/{fixtureID}/substitutions", RequireAuth(verifier, http.HandlerFunc(handler.ApplySubstitution)))
	mux.Handle("PUT /v1/fixtures/{fixtureID}/result", RequireAuth(verifier, http.HandlerFunc(handler.EnterResult)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("POST /v1/admin/rounds", RequireAdminToken(adminToken, http.HandlerFunc(handler.UpsertRound)))
	mux.Handle("POST /v1/admin/rounds/{roundID}/activate", RequireAdminToken(adminToken, http.HandlerFunc(handler.ActivateRound)))
	mux.Handle("POST /v1/admin/rounds/{roundID}/pause", RequireAdminToken(adminToken, http.HandlerFunc(handler.PauseRound)))
	mux.Handle("POST /v1/admin/rounds/{roundID}/complete", RequireAdminToken(adminToken, http.HandlerFunc(handler.CompleteRound)))
	mux.Handle("POST /v1/admin/fixtures", RequireAdminToken(adminToken, http.HandlerFunc(handler.CreateFixture)))
}
