package server

import (
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// LocalIP finds the LAN address other devices can reach this host on. The UDP
// dial never sends a packet; it only forces the kernel to pick a source
// address.
func LocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}

// LocalIPHandler serves the join URL so clients on the same network can render
// it without guessing the host address.
func LocalIPHandler(port int) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ip := LocalIP()
		ctx.JSON(http.StatusOK, gin.H{
			"ip":   ip,
			"port": port,
			"url":  fmt.Sprintf("http://%s:%d", ip, port),
		})
	}
}
