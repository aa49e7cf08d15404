package helper

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"travel_manager/database"
	"travel_manager/model"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var JwtSecret = []byte(os.Getenv("JWT_SECRET"))

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func GetCustomerByEmail(e string) (*model.Customer, error) {
	db := database.DB
	var customer model.Customer
	if err := db.Where(&model.Customer{Email: e}).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func GenerateAccessToken(tokenClaim model.TokenClaim) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["customerId"] = tokenClaim.CustomerId
	claims["email"] = tokenClaim.Email
	claims["role"] = tokenClaim.Role
	claims["exp"] = time.Now().Add(time.Minute * 60).Unix()

	t, err := token.SignedString(JwtSecret)
	return t, err
}

func GenerateRefreshToken(tokenClaim model.TokenClaim) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["customerId"] = tokenClaim.CustomerId
	claims["email"] = tokenClaim.Email
	claims["exp"] = time.Now().Add(time.Hour * 24 * 7).Unix()

	t, err := token.SignedString(JwtSecret)
	return t, err
}

func ParseToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Xác thực thuật toán ký là HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return JwtSecret, nil
	})

	return token, err
}

// GetInfoCustomerFromToken đọc claim từ Locals("user"), trả về claim rỗng nếu là guest
func GetInfoCustomerFromToken(c *fiber.Ctx) (model.TokenClaim, model.Customer) {
	var emptyCustomer model.Customer
	guestClaim := model.TokenClaim{CustomerId: 0}

	u := c.Locals("user")
	if u == nil {
		return guestClaim, emptyCustomer
	}

	userToken, ok := u.(*jwt.Token)
	if !ok || userToken == nil {
		return guestClaim, emptyCustomer
	}

	claims, ok := userToken.Claims.(jwt.MapClaims)
	if !ok {
		return guestClaim, emptyCustomer
	}

	customerIdFloat, _ := claims["customerId"].(float64)
	if customerIdFloat == 0 {
		return guestClaim, emptyCustomer
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	tokenClaim := model.TokenClaim{
		CustomerId: uint(customerIdFloat),
		Email:      email,
		Role:       role,
	}

	var customer model.Customer
	db := database.DB
	if err := db.First(&customer, tokenClaim.CustomerId).Error; err != nil {
		log.Printf("Customer not found (id=%d): %v", tokenClaim.CustomerId, err)
		return guestClaim, emptyCustomer
	}

	c.Locals("customer", &customer)

	return tokenClaim, customer
}
