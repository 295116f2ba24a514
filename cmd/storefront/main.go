package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bakeshop-mx/storefront-client/internal/addresses"
	"github.com/bakeshop-mx/storefront-client/internal/auth"
	"github.com/bakeshop-mx/storefront-client/internal/cart"
	"github.com/bakeshop-mx/storefront-client/internal/catalog"
	"github.com/bakeshop-mx/storefront-client/internal/gateway"
	"github.com/bakeshop-mx/storefront-client/internal/orders"
	"github.com/bakeshop-mx/storefront-client/internal/pricing"
	"github.com/bakeshop-mx/storefront-client/pkg/config"
	"github.com/bakeshop-mx/storefront-client/pkg/logger"
	"github.com/bakeshop-mx/storefront-client/pkg/metrics"
	"github.com/bakeshop-mx/storefront-client/pkg/session"
)

const usage = `usage: storefront <command> [args]

  login <email> <password>       start a session
  logout                         end the session
  me                             show the signed-in profile
  products [search]              list catalog products
  categories                     list catalog categories
  cart                           show the cart
  add <product-id> <qty>         add a product to the cart
  update <item-id> <qty>         change a line quantity (0 removes)
  remove <item-id>               remove a line
  clear                          empty the cart
  addresses                      list saved addresses
  checkout <address-id> [notes]  create an order from the cart
  orders                         list orders
  cancel <order-id>              cancel a pending order
`

type app struct {
	logg    *logger.Logger
	auth    *auth.Service
	cart    *cart.Store
	orders  *orders.Tracker
	catalog *catalog.Service
	book    *addresses.Book
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Debug(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	store, err := session.NewFromConfig(ctx, cfg.Session)
	if err != nil {
		logg.Error(ctx, "failed to open session storage", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	client, err := gateway.NewClient(gateway.ClientParams{
		Config:  cfg.API,
		Logger:  logg,
		Metrics: metrics.NewRequestMetrics(registry),
	})
	if err != nil {
		logg.Error(ctx, "failed to build api gateway", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(ctx, auth.ServiceParams{
		Gateway: client,
		Store:   store,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create session service", err)
		os.Exit(1)
	}
	client.SetAuthorizer(authService)

	engine := pricing.NewEngine(cfg.Pricing)

	cartStore, err := cart.NewStore(cart.StoreParams{
		Gateway: client,
		Engine:  engine,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart store", err)
		os.Exit(1)
	}

	tracker, err := orders.NewTracker(orders.TrackerParams{
		Gateway: client,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create order tracker", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Gateway: client,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	book, err := addresses.NewBook(addresses.BookParams{
		Gateway: client,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create address book", err)
		os.Exit(1)
	}

	a := &app{
		logg:    logg,
		auth:    authService,
		cart:    cartStore,
		orders:  tracker,
		catalog: catalogService,
		book:    book,
	}

	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if err := a.run(ctx, flag.Args()); err != nil {
		logg.Error(ctx, "command failed", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return nil
	}

	switch args[0] {
	case "login":
		if len(args) != 3 {
			return fmt.Errorf("login needs <email> <password>")
		}
		if err := a.auth.Login(ctx, auth.Credentials{Email: args[1], Password: args[2]}); err != nil {
			return err
		}
		user := a.auth.CurrentUser(ctx)
		if user != nil {
			fmt.Printf("signed in as %s\n", user.FullName())
		}
		return nil

	case "logout":
		a.auth.Logout(ctx)
		fmt.Println("signed out")
		return nil

	case "me":
		user, err := a.auth.FetchProfile(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> rol=%s\n", user.FullName(), user.Email, user.Role)
		return nil

	case "products":
		filters := catalog.Filters{}
		if len(args) > 1 {
			filters.Search = args[1]
		}
		products, err := a.catalog.ListProducts(ctx, filters)
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Printf("%4d  %-30s $%s  stock=%d\n", p.ID, p.Name, p.BasePrice.StringFixed(2), p.Stock)
		}
		return nil

	case "categories":
		categories, err := a.catalog.ListCategories(ctx)
		if err != nil {
			return err
		}
		for _, c := range categories {
			fmt.Printf("%4d  %s\n", c.ID, c.Name)
		}
		return nil

	case "cart":
		if err := a.cart.Load(ctx); err != nil {
			return err
		}
		return a.printCart()

	case "add":
		productID, quantity, err := idAndQty(args, "add <product-id> <qty>")
		if err != nil {
			return err
		}
		if err := a.cart.AddItem(ctx, productID, quantity); err != nil {
			return err
		}
		return a.printCart()

	case "update":
		itemID, quantity, err := idAndQty(args, "update <item-id> <qty>")
		if err != nil {
			return err
		}
		if err := a.cart.UpdateQuantity(ctx, itemID, quantity); err != nil {
			return err
		}
		return a.printCart()

	case "remove":
		if len(args) != 2 {
			return fmt.Errorf("remove needs <item-id>")
		}
		itemID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid item id %q", args[1])
		}
		if err := a.cart.RemoveItem(ctx, itemID); err != nil {
			return err
		}
		return a.printCart()

	case "clear":
		if err := a.cart.Clear(ctx); err != nil {
			return err
		}
		fmt.Println("cart emptied")
		return nil

	case "addresses":
		listed, err := a.book.List(ctx)
		if err != nil {
			return err
		}
		for _, addr := range listed {
			marker := " "
			if addr.IsDefault {
				marker = "*"
			}
			fmt.Printf("%s %4d  %s\n", marker, addr.ID, addresses.Format(addr))
		}
		return nil

	case "checkout":
		if len(args) < 2 {
			return fmt.Errorf("checkout needs <address-id> [notes]")
		}
		addressID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid address id %q", args[1])
		}
		var notes *string
		if len(args) > 2 {
			notes = &args[2]
		}
		order, err := a.orders.CreateFromCart(ctx, addressID, notes)
		if err != nil {
			return err
		}
		fmt.Printf("order %d created, total $%s (%s)\n", order.ID, order.Total.StringFixed(2), order.Status.Label())
		return nil

	case "orders":
		listed, err := a.orders.ListOrders(ctx)
		if err != nil {
			return err
		}
		for _, o := range listed {
			fmt.Printf("%4d  $%-10s %s\n", o.ID, o.Total.StringFixed(2), o.Status.Label())
		}
		return nil

	case "cancel":
		if len(args) != 2 {
			return fmt.Errorf("cancel needs <order-id>")
		}
		orderID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[1])
		}
		order, err := a.orders.Cancel(ctx, orderID)
		if err != nil {
			return err
		}
		fmt.Printf("order %d is now %s\n", order.ID, order.Status.Label())
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) printCart() error {
	c := a.cart.Cart()
	if c == nil || len(c.Items) == 0 {
		fmt.Println("cart is empty")
		return nil
	}
	for _, item := range c.Items {
		name := item.Product.Name
		if name == "" {
			name = strconv.FormatInt(item.ProductID, 10)
		}
		fmt.Printf("%4d  %-30s x%-3d $%s\n", item.ID, name, item.Quantity, item.Subtotal.StringFixed(2))
	}
	fmt.Printf("subtotal $%s  shipping $%s  total $%s\n",
		a.cart.Subtotal().StringFixed(2), a.cart.Shipping().StringFixed(2), a.cart.Total().StringFixed(2))
	return nil
}

func idAndQty(args []string, hint string) (int64, int, error) {
	if len(args) != 3 {
		return 0, 0, fmt.Errorf("%s", hint)
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid id %q", args[1])
	}
	quantity, err := strconv.Atoi(args[2])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid quantity %q", args[2])
	}
	return id, quantity, nil
}
