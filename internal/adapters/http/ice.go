package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"

	"github.com/Aloksingh622/orbit-server/internal/config"
)

// ICEServers builds the ICE server list clients use to construct their
// peer connections. Credentials come from config; the relay only hands
// them out.
func ICEServers(cfg *config.Config) []webrtc.ICEServer {
	servers := []webrtc.ICEServer{}
	if len(cfg.STUNURLs) > 0 {
		servers = append(servers, webrtc.ICEServer{URLs: cfg.STUNURLs})
	}
	if cfg.TURNURL != "" {
		servers = append(servers, webrtc.ICEServer{
			URLs:       []string{cfg.TURNURL},
			Username:   cfg.TURNUsername,
			Credential: cfg.TURNPassword,
		})
	}
	return servers
}

func ICEServersHandler(cfg *config.Config) gin.HandlerFunc {
	servers := ICEServers(cfg)
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": servers})
	}
}
