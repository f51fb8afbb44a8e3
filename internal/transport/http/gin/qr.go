package httpgin

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeqown/go-qrcode"

	"github.com/kirinyoku/reg-go/internal/service"
)

// @Summary  Ticket QR image
// @Param    code  path  string  true  "Ticket code"
// @Produce  jpeg
// @Success  200  {file}  file
// @Failure  404  {object}  ErrorResponse
// @Router   /tickets/{code}/qr [get]
func handleTicketQR(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("code")

		// confirm the code exists before rendering anything
		detail, err := svcs.Query.TicketByCode(c.Request.Context(), code)
		if err != nil {
			respondErr(c, err)
			return
		}

		qrc, err := qrcode.New(detail.Ticket.Code)
		if err != nil {
			respondErr(c, err)
			return
		}

		var buf bytes.Buffer
		if err := qrc.SaveTo(&buf); err != nil {
			respondErr(c, err)
			return
		}

		c.Header("Cache-Control", "public, max-age=86400")
		c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
	}
}
