package service

import (
	"errors"
	"fmt"

	"github.com/loomcart/internal/constants"
	"github.com/loomcart/internal/logger"
	"github.com/loomcart/internal/models"
	"github.com/loomcart/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartIdentity 购物车归属标识。UserID 优先于 GuestID。
type CartIdentity struct {
	UserID  uint
	GuestID string
}

// HasUser 是否登录用户
func (id CartIdentity) HasUser() bool {
	return id.UserID > 0
}

// HasGuest 是否携带游客标识
func (id CartIdentity) HasGuest() bool {
	return id.GuestID != ""
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	saveRetries int
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, saveRetries int) *CartService {
	if saveRetries < 1 {
		saveRetries = 1
	}
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		saveRetries: saveRetries,
	}
}

// NewGuestID 生成服务端游客标识
func NewGuestID() string {
	return constants.GuestIDPrefix + uuid.NewString()
}

// loadCart 按归属标识加载购物车，未命中时返回 nil
func (s *CartService) loadCart(identity CartIdentity) (*models.Cart, error) {
	if identity.HasUser() {
		return s.cartRepo.GetByUserID(identity.UserID)
	}
	if identity.HasGuest() {
		return s.cartRepo.GetByGuestID(identity.GuestID)
	}
	return nil, nil
}

// GetCart 查看购物车
func (s *CartService) GetCart(identity CartIdentity) (*models.Cart, error) {
	cart, err := s.loadCart(identity)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return cart, nil
}

// AddItemResult 添加结果。GuestID 仅在服务端新发游客标识时非空。
type AddItemResult struct {
	Cart    *models.Cart
	GuestID string
}

// AddItem 向购物车添加商品。同款同规格条目数量累加，
// 单价与名称以商品目录当前值为准并回写到条目。
func (s *CartService) AddItem(identity CartIdentity, productID uint, size, color string, quantity int) (*AddItemResult, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, ErrProductUnavailable
	}

	mintedGuestID := ""
	if !identity.HasUser() && !identity.HasGuest() {
		mintedGuestID = NewGuestID()
		identity.GuestID = mintedGuestID
	}

	for attempt := 0; attempt < s.saveRetries; attempt++ {
		cart, err := s.loadCart(identity)
		if err != nil {
			return nil, fmt.Errorf("load cart: %w", err)
		}
		if cart == nil {
			cart = &models.Cart{}
			if identity.HasUser() {
				uid := identity.UserID
				cart.UserID = &uid
			} else {
				gid := identity.GuestID
				cart.GuestID = &gid
			}
			cart.Items = []models.CartItem{buildCartItem(product, size, color, quantity)}
			recomputeCartTotal(cart)
			if err := s.cartRepo.Create(cart); err != nil {
				// 并发创建撞到唯一索引时重新加载再试，其余错误直接上抛
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					continue
				}
				return nil, fmt.Errorf("create cart: %w", err)
			}
			return &AddItemResult{Cart: cart, GuestID: mintedGuestID}, nil
		}

		merged := false
		for i := range cart.Items {
			if sameVariant(&cart.Items[i], productID, size, color) {
				cart.Items[i].Quantity += quantity
				cart.Items[i].UnitPrice = product.Price
				cart.Items[i].Name = product.Name
				cart.Items[i].Image = product.Image
				merged = true
				break
			}
		}
		if !merged {
			cart.Items = append(cart.Items, buildCartItem(product, size, color, quantity))
		}
		recomputeCartTotal(cart)

		ok, err := s.cartRepo.SaveWithVersion(cart)
		if err != nil {
			return nil, fmt.Errorf("save cart: %w", err)
		}
		if ok {
			return &AddItemResult{Cart: cart, GuestID: mintedGuestID}, nil
		}
	}
	return nil, ErrCartConflict
}

// UpdateItemQuantity 将条目数量设为指定值（非增量），数量小于等于 0 时移除条目
func (s *CartService) UpdateItemQuantity(identity CartIdentity, productID uint, size, color string, quantity int) (*models.Cart, error) {
	return s.mutateItem(identity, productID, size, color, func(cart *models.Cart, idx int) {
		if quantity <= 0 {
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
			return
		}
		cart.Items[idx].Quantity = quantity
	})
}

// RemoveItem 从购物车移除条目
func (s *CartService) RemoveItem(identity CartIdentity, productID uint, size, color string) (*models.Cart, error) {
	return s.mutateItem(identity, productID, size, color, func(cart *models.Cart, idx int) {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	})
}

// mutateItem 对已存在条目执行修改并以乐观锁保存
func (s *CartService) mutateItem(identity CartIdentity, productID uint, size, color string, apply func(cart *models.Cart, idx int)) (*models.Cart, error) {
	if !identity.HasUser() && !identity.HasGuest() {
		return nil, ErrCartNotFound
	}
	for attempt := 0; attempt < s.saveRetries; attempt++ {
		cart, err := s.loadCart(identity)
		if err != nil {
			return nil, fmt.Errorf("load cart: %w", err)
		}
		if cart == nil {
			return nil, ErrCartNotFound
		}

		idx := -1
		for i := range cart.Items {
			if sameVariant(&cart.Items[i], productID, size, color) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, ErrCartItemNotFound
		}

		apply(cart, idx)
		recomputeCartTotal(cart)

		ok, err := s.cartRepo.SaveWithVersion(cart)
		if err != nil {
			return nil, fmt.Errorf("save cart: %w", err)
		}
		if ok {
			return cart, nil
		}
	}
	return nil, ErrCartConflict
}

// MergeGuestCart 登录时将游客购物车并入用户购物车。
// 同款同规格条目数量累加，游客购物车随后删除，删除失败不影响结果。
// 没有游客购物车时：有用户购物车则原样返回，否则返回 ErrCartNotFound。
// 游客购物车为空时返回 ErrGuestCartEmpty。
func (s *CartService) MergeGuestCart(userID uint, guestID string) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrInvalidIdentity
	}

	var guestCart *models.Cart
	var err error
	if guestID != "" {
		guestCart, err = s.cartRepo.GetByGuestID(guestID)
		if err != nil {
			return nil, fmt.Errorf("load guest cart: %w", err)
		}
	}

	userCart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("load user cart: %w", err)
	}

	if guestCart == nil {
		if userCart != nil {
			return userCart, nil
		}
		return nil, ErrCartNotFound
	}
	if len(guestCart.Items) == 0 {
		return nil, ErrGuestCartEmpty
	}

	if userCart == nil {
		// 用户没有购物车，直接把游客购物车过户
		if err := s.cartRepo.ReassignToUser(guestCart.ID, userID); err != nil {
			return nil, fmt.Errorf("reassign guest cart: %w", err)
		}
		return s.cartRepo.GetByUserID(userID)
	}

	for gi := range guestCart.Items {
		g := &guestCart.Items[gi]
		merged := false
		for ui := range userCart.Items {
			if sameVariant(&userCart.Items[ui], g.ProductID, g.Size, g.Color) {
				userCart.Items[ui].Quantity += g.Quantity
				merged = true
				break
			}
		}
		if !merged {
			userCart.Items = append(userCart.Items, models.CartItem{
				ProductID: g.ProductID,
				Name:      g.Name,
				Image:     g.Image,
				UnitPrice: g.UnitPrice,
				Size:      g.Size,
				Color:     g.Color,
				Quantity:  g.Quantity,
			})
		}
	}
	recomputeCartTotal(userCart)

	for attempt := 0; ; attempt++ {
		ok, err := s.cartRepo.SaveWithVersion(userCart)
		if err != nil {
			return nil, fmt.Errorf("save merged cart: %w", err)
		}
		if ok {
			break
		}
		if attempt+1 >= s.saveRetries {
			return nil, ErrCartConflict
		}
		fresh, err := s.cartRepo.GetByUserID(userID)
		if err != nil || fresh == nil {
			return nil, ErrCartConflict
		}
		userCart.Version = fresh.Version
	}

	// 合并已持久化，游客购物车清理失败仅记录，不回滚
	if err := s.cartRepo.Delete(guestCart.ID); err != nil {
		logger.Warnw("清理已合并的游客购物车失败", "cart_id", guestCart.ID, "guest_id", guestID, "error", err)
	}

	return s.cartRepo.GetByUserID(userID)
}

func buildCartItem(product *models.Product, size, color string, quantity int) models.CartItem {
	return models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Image:     product.Image,
		UnitPrice: product.Price,
		Size:      size,
		Color:     color,
		Quantity:  quantity,
	}
}

func sameVariant(item *models.CartItem, productID uint, size, color string) bool {
	return item.ProductID == productID && item.Size == size && item.Color == color
}

func recomputeCartTotal(cart *models.Cart) {
	total := decimal.Zero
	for i := range cart.Items {
		line := cart.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(cart.Items[i].Quantity)))
		total = total.Add(line)
	}
	cart.TotalPrice = models.NewMoneyFromDecimal(total)
}
